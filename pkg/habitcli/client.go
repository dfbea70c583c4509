// Package habitcli is the client library for the habitd daemon. It speaks
// the framed JSON protocol over the daemon's unix socket (or TCP fallback)
// and exposes typed methods for every daemon operation.
package habitcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/omaryagoub77/Habit-Tracker-sub000/common"
)

type Client struct {
	mu   *sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %s", err.Error())
	}
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{},
	}, nil
}

// SetHandlers installs the dispatcher handlers used by Listen.
func (c *Client) SetHandlers(handlers map[common.UpdateType]Handler) {
	c.d.Handlers = handlers
}

// AddHandler registers an additional handler for an update type. Multiple
// handlers for the same type all run, in registration order.
func (c *Client) AddHandler(utype common.UpdateType, h Handler) {
	if c.d.Handlers == nil {
		c.d.Handlers = make(map[common.UpdateType]Handler)
	}
	switch prev := c.d.Handlers[utype].(type) {
	case nil:
		c.d.Handlers[utype] = h
	case MultiHandler:
		c.d.Handlers[utype] = append(prev, h)
	default:
		c.d.Handlers[utype] = MultiHandler{prev, h}
	}
}

// Close terminates the connection to the daemon.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen blocks, reading pushed updates from the daemon and dispatching
// them until the connection closes or a handler returns ErrDisconnect.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			err = fmt.Errorf("error reading: %s", err.Error())
			return
		}
		err = c.d.process(buf)
		if err != nil {
			c.mu.RUnlock()
			if err == ErrDisconnect {
				err = nil
				break
			}
			err = fmt.Errorf("error processing: %s", err.Error())
			return
		}
		c.mu.RUnlock()
	}
	return
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// block the updates listener while invoking a method
	// to retrieve the message update here instead
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	err = write(c.conn, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	var res Response
	err = json.Unmarshal(buf, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", method, err.Error())
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	if res.Update == nil {
		return nil, nil
	}
	return res.Update.Message, nil
}
