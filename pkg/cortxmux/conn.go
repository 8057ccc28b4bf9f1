package cortxmux

import (
	"net"
	"sync"
	"time"
)

// cortxConn wraps an accepted connection and replays the consumed
// type byte on the first read, for layers which need to see it.
type cortxConn struct {
	conn     net.Conn
	once     sync.Once
	signByte byte
}

func newCortxConn(conn net.Conn, signByte byte) *cortxConn {
	return &cortxConn{
		conn:     conn,
		signByte: signByte,
	}
}

func (cc *cortxConn) Read(b []byte) (n int, err error) {
	cc.once.Do(func() {
		if len(b) < 1 {
			return
		}

		b[0] = cc.signByte
		b = b[1:]
		n++
	})
	read, err := cc.conn.Read(b)
	return read + n, err
}

func (cc *cortxConn) Write(b []byte) (n int, err error) {
	return cc.conn.Write(b)
}

func (cc *cortxConn) Close() error {
	return cc.conn.Close()
}

func (cc *cortxConn) LocalAddr() net.Addr {
	return cc.conn.LocalAddr()
}

func (cc *cortxConn) RemoteAddr() net.Addr {
	return cc.conn.RemoteAddr()
}

func (cc *cortxConn) SetDeadline(t time.Time) error {
	return cc.conn.SetDeadline(t)
}

func (cc *cortxConn) SetReadDeadline(t time.Time) error {
	return cc.conn.SetReadDeadline(t)
}

func (cc *cortxConn) SetWriteDeadline(t time.Time) error {
	return cc.conn.SetWriteDeadline(t)
}
