// Package spjs streams serial data from a Serial Port JSON Server over
// websocket, as an alternative to opening a local port directly.
package spjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const reconnectDelay = 3 * time.Second

// A Client maintains a websocket connection to an SPJS server,
// reconnecting as needed, and routes received dataframes to the
// PortStreams opened through it.
type Client struct {
	url string

	mx      sync.RWMutex
	conn    *websocket.Conn
	streams map[string]*PortStream
	ports   []SerialPort

	outgoing chan message
	done     chan struct{}
}

type message struct {
	done    chan struct{} // nil for fire-and-forget sends
	payload []byte
}

// DataFrame carries bytes received on one of the server's ports.
type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}

// CmdStatus reports progress of a queued command.
type CmdStatus struct {
	Cmd        string
	QueueCount int      `json:"QCnt"`
	Data       []string `json:"D"`
	ID         string   `json:"Id"`
}

type ErrorMessage struct {
	Error string
}

type SerialPortList struct {
	SerialPorts []SerialPort
}

// SerialPort describes one port known to the server.
type SerialPort struct {
	Name     string
	Friendly string
	IsOpen   bool
	Baud     int
}

// NewClient starts a client for the given websocket URL. The
// connection is maintained in the background; opened streams survive
// reconnects.
func NewClient(url string) *Client {
	c := &Client{
		url:      url,
		streams:  make(map[string]*PortStream),
		outgoing: make(chan message, 1000),
		done:     make(chan struct{}),
	}

	go c.loop()

	return c
}

// Ports returns the most recent port list reported by the server.
func (c *Client) Ports() []SerialPort {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.ports
}

func parseMessage(data []byte, msg map[string]json.RawMessage) (val interface{}, err error) {
	check := func(fieldName string, v interface{}) bool {
		if msg[fieldName] == nil {
			return false
		}
		val = v
		err = json.Unmarshal(data, val)
		return true
	}
	if check("Error", &ErrorMessage{}) {
		return
	}
	if check("SerialPorts", &SerialPortList{}) {
		return
	}
	if check("Type", &CmdStatus{}) {
		return
	}
	if check("D", &DataFrame{}) {
		return
	}

	return nil, errors.New("unknown message: " + string(data))
}

func (c *Client) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Println("ERROR: read:", err)
			}
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// ignore echo messages
			continue
		}
		var msg map[string]json.RawMessage
		err = json.Unmarshal(data, &msg)
		if err != nil {
			log.Println("ERROR: read:", err)
			continue
		}
		val, err := parseMessage(data, msg)
		if err != nil {
			log.Println("ERROR: parse:", err)
			continue
		}
		c.dispatch(val)
	}
}

func (c *Client) dispatch(val interface{}) {
	switch m := val.(type) {
	case *ErrorMessage:
		log.Println("ERROR: spjs:", m.Error)
	case *SerialPortList:
		c.mx.Lock()
		c.ports = m.SerialPorts
		c.mx.Unlock()
		for _, p := range m.SerialPorts {
			log.Printf("spjs port: %s (%s) open=%t", p.Name, p.Friendly, p.IsOpen)
		}
	case *CmdStatus:
		// command acks carry nothing the sample stream needs
	case *DataFrame:
		c.mx.RLock()
		ps := c.streams[m.Port]
		c.mx.RUnlock()
		if ps != nil {
			ps.deliver([]byte(m.Data))
		}
	}
}

func (c *Client) loop() {
	var nextUp message

reconnect:
	for {
		select {
		case <-c.done:
			return
		default:
		}

		log.Println("Connecting to", c.url)
		ws, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			log.Println("ERROR: connect:", err)
			select {
			case <-c.done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}
		log.Println("Connected.")
		c.mx.Lock()
		c.conn = ws
		streams := make([]*PortStream, 0, len(c.streams))
		for _, ps := range c.streams {
			streams = append(streams, ps)
		}
		c.mx.Unlock()

		ch := make(chan struct{})
		go c.readLoop(ws, ch)
		go c.WriteString("list") // refresh list on reconnect
		for _, ps := range streams {
			c.send(fmt.Sprintf("open %s %d", ps.name, ps.baud))
		}

		for {
			if nextUp.payload != nil {
				err = ws.WriteMessage(websocket.TextMessage, nextUp.payload)
				if err != nil {
					log.Println("ERROR: send:", err)
					ws.Close()
					continue reconnect
				}
				if nextUp.done != nil {
					close(nextUp.done)
				}
				nextUp = message{}
			}

			select {
			case <-c.done:
				ws.Close()
				return
			case <-ch:
				ws.Close()
				continue reconnect
			case nextUp = <-c.outgoing:
			}
		}
	}
}

// WriteString sends a raw command to the server and waits until it has
// been written to the connection.
func (c *Client) WriteString(data string) {
	ch := make(chan struct{})
	select {
	case c.outgoing <- message{done: ch, payload: []byte(data)}:
	case <-c.done:
		return
	}
	select {
	case <-ch:
	case <-c.done:
	}
}

// send queues a command without waiting for it to be written.
func (c *Client) send(data string) {
	select {
	case c.outgoing <- message{payload: []byte(data)}:
	default:
		log.Println("ERROR: spjs send queue full, dropping:", data)
	}
}

// Close shuts the client down and unblocks any pending stream reads.
func (c *Client) Close() error {
	c.mx.Lock()
	select {
	case <-c.done:
		c.mx.Unlock()
		return nil
	default:
	}
	close(c.done)
	conn := c.conn
	streams := make([]*PortStream, 0, len(c.streams))
	for _, ps := range c.streams {
		streams = append(streams, ps)
	}
	c.mx.Unlock()

	for _, ps := range streams {
		ps.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
