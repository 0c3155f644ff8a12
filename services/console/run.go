package console

import (
	"context"

	"cwkeyer-go/bus"
	"cwkeyer-go/types"
)

const prompt = "> "

// readLines splits serial input on CR or LF. Overlong lines are cut at
// maxLine bytes.
func (c *Console) readLines(ctx context.Context, out chan<- string) {
	defer close(out)
	buf := make([]byte, 32)
	line := make([]byte, 0, maxLine)
	for {
		n, err := c.port.RecvSomeContext(ctx, buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			switch {
			case b == '\r' || b == '\n':
				if len(line) == 0 {
					continue
				}
				select {
				case out <- string(line):
				case <-ctx.Done():
					return
				}
				line = line[:0]
			case b == 0x08 || b == 0x7f:
				if len(line) > 0 {
					line = line[:len(line)-1]
				}
			case len(line) < maxLine:
				line = append(line, b)
			}
		}
	}
}

func (c *Console) write(s string) {
	if s == "" {
		return
	}
	_, _ = c.port.Write([]byte(s + "\r\n"))
}

func (c *Console) run(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigKeyer)
	defer conn.Unsubscribe(cfgSub)

	lines := make(chan string, 2)
	go c.readLines(ctx, lines)

	c.write("cw keyer console, type help")
	_, _ = c.port.Write([]byte(prompt))
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-cfgSub.Channel():
			if set, ok := msg.Payload.(types.KeyerSettings); ok {
				c.settings = set
			}
		case line, ok := <-lines:
			if !ok {
				println("[console] input closed")
				return
			}
			c.write(c.Exec(ctx, conn, line))
			_, _ = c.port.Write([]byte(prompt))
		}
	}
}

// Start launches the reader and command loop.
func (c *Console) Start(ctx context.Context, conn *bus.Connection) {
	go c.run(ctx, conn)
}
