// Package console is the operator command line on the serial port.
package console

import (
	"context"
	"strings"
	"time"

	"github.com/google/shlex"

	"cwkeyer-go/bus"
	"cwkeyer-go/errcode"
	"cwkeyer-go/hal/halcore"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
	"cwkeyer-go/x/strconvx"
)

var (
	topicConfigKeyer = bus.T("config", "keyer")
	topicControl     = bus.T("keyer", "control")
)

const (
	maxLine        = 96
	requestTimeout = 500 * time.Millisecond
)

const helpText = `commands:
  mode a|b|super     select keyer mode
  wpm N              speed, 1..100
  debounce MS        paddle debounce, 0..100
  charspace on|off   enforce 3-unit character gap
  lookahead N        elements queued ahead of the sender, 0 = unlimited
  reset              return keyer to idle, clear memory
  status             show keyer status
  help               this text`

// Console parses operator commands and turns them into retained config
// updates or control requests.
type Console struct {
	port     halcore.SerialPort
	settings types.KeyerSettings
}

func New(port halcore.SerialPort, initial types.KeyerSettings) *Console {
	return &Console{port: port, settings: initial}
}

func (c *Console) Settings() types.KeyerSettings { return c.settings }

// Exec runs one command line and returns the reply text.
func (c *Console) Exec(ctx context.Context, conn *bus.Connection, line string) string {
	args, err := shlex.Split(line)
	if err != nil {
		return replyErr(errcode.New(errcode.InvalidParams, "console", err.Error()))
	}
	if len(args) == 0 {
		return ""
	}
	cmd, rest := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		return helpText
	case "status":
		return c.status(ctx, conn)
	case "reset":
		return c.control(ctx, conn, "reset")
	}

	if len(rest) != 1 {
		return replyErr(errcode.New(errcode.InvalidParams, cmd, "expects one argument"))
	}
	next, err := c.edit(cmd, rest[0])
	if err != nil {
		return replyErr(err)
	}
	if _, err := next.Config(); err != nil {
		return replyErr(err)
	}
	c.settings = next
	conn.Publish(conn.NewMessage(topicConfigKeyer, next, true))
	return "ok"
}

// edit returns a copy of the current settings with one field changed.
func (c *Console) edit(cmd, arg string) (types.KeyerSettings, error) {
	next := c.settings
	switch cmd {
	case "mode":
		m, ok := keyer.ParseMode(strings.ToLower(arg))
		if !ok {
			return next, errcode.New(errcode.InvalidMode, cmd, "want a, b or super")
		}
		next.Mode = m.String()
	case "wpm":
		n, err := strconvx.ParseUint(arg, 10, 32)
		if err != nil {
			return next, errcode.New(errcode.InvalidWPM, cmd, "not a number")
		}
		next.WPM = uint32(n)
	case "debounce":
		n, err := strconvx.ParseUint(arg, 10, 32)
		if err != nil {
			return next, errcode.New(errcode.InvalidDebounce, cmd, "not a number")
		}
		next.DebounceMs = uint32(n)
	case "charspace":
		switch strings.ToLower(arg) {
		case "on", "1", "true":
			next.CharSpace = true
		case "off", "0", "false":
			next.CharSpace = false
		default:
			return next, errcode.New(errcode.InvalidParams, cmd, "want on or off")
		}
	case "lookahead":
		n, err := strconvx.Atoi(arg)
		if err != nil || n < 0 || n > next.QueueCapacity {
			return next, errcode.New(errcode.InvalidParams, cmd, "out of range")
		}
		next.Lookahead = n
	case "queue":
		return next, errcode.New(errcode.InvalidQueueCapacity, cmd, "queue capacity is fixed at boot")
	default:
		return next, errcode.New(errcode.UnknownCommand, cmd, "try help")
	}
	return next, nil
}

func (c *Console) control(ctx context.Context, conn *bus.Connection, verb string) string {
	reply, err := c.request(ctx, conn, verb)
	if err != nil {
		return replyErr(errcode.New(errcode.Busy, verb, "keyer did not answer"))
	}
	if code, ok := reply.Payload.(errcode.Code); ok && code != errcode.OK {
		return replyErr(code)
	}
	return "ok"
}

func (c *Console) status(ctx context.Context, conn *bus.Connection) string {
	reply, err := c.request(ctx, conn, "status")
	if err != nil {
		return replyErr(errcode.New(errcode.Busy, "status", "keyer did not answer"))
	}
	st, ok := reply.Payload.(types.KeyerStatus)
	if !ok {
		return replyErr(errcode.Error)
	}
	return FormatStatus(st, c.settings)
}

func (c *Console) request(ctx context.Context, conn *bus.Connection, verb string) (*bus.Message, error) {
	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return conn.RequestWait(rctx, conn.NewMessage(topicControl.Append(verb), nil, false))
}

// FormatStatus renders a one-line status report.
func FormatStatus(st types.KeyerStatus, set types.KeyerSettings) string {
	var sb strings.Builder
	sb.WriteString("mode=")
	sb.WriteString(st.Mode)
	sb.WriteString(" wpm=")
	sb.WriteString(strconvx.Itoa(int(st.WPM)))
	sb.WriteString(" debounce=")
	sb.WriteString(strconvx.Itoa(int(set.DebounceMs)))
	sb.WriteString("ms charspace=")
	sb.WriteString(onOff(set.CharSpace))
	sb.WriteString(" state=")
	sb.WriteString(st.State)
	sb.WriteString(" dit=")
	sb.WriteString(upDown(st.Dit))
	sb.WriteString(" dah=")
	sb.WriteString(upDown(st.Dah))
	sb.WriteString(" queue=")
	sb.WriteString(strconvx.Itoa(st.QueueLen))
	sb.WriteString("/")
	sb.WriteString(strconvx.Itoa(set.QueueCapacity))
	sb.WriteString(" sent=")
	sb.WriteString(strconvx.Itoa(int(st.Enqueued)))
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func upDown(pressed bool) string {
	if pressed {
		return "down"
	}
	return "up"
}

func replyErr(err error) string {
	return "error: " + err.Error()
}
