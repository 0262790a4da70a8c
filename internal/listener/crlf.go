package listener

import (
	"io"
)

// lineConn normalises what a terminal sends to bare \n and expands every \n
// written back into \r\n. Telnet clients end lines with \r\n, raw ssh
// terminals with \r, and either may arrive split across reads.
type lineConn struct {
	rw      io.ReadWriter
	afterCR bool
}

func newLineConn(rw io.ReadWriter) *lineConn {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	for {
		n, err := c.rw.Read(p)
		out := 0
		for _, b := range p[:n] {
			switch {
			case b == '\n' && c.afterCR:
				c.afterCR = false
				continue
			case b == '\r':
				c.afterCR = true
				b = '\n'
			default:
				c.afterCR = false
			}
			p[out] = b
			out++
		}
		// A read holding only the tail of a \r\n must not look like EOF.
		if out > 0 || err != nil || n == 0 {
			return out, err
		}
	}
}

func (c *lineConn) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			buf = append(buf, '\r')
		}
		buf = append(buf, b)
	}
	if _, err := c.rw.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
