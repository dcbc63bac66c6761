package stream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 1 * time.Minute
)

// Client holds a websocket connection to the streaming server and
// forwards decoded messages on Messages.
type Client struct {
	url      string
	clientID string
	dialer   *websocket.Dialer
	messages chan Message
}

// NewClient creates a client for the endpoint at rawURL. An empty clientID
// is replaced with a random one.
func NewClient(rawURL, clientID string) *Client {
	if clientID == "" {
		clientID = uuid.NewString()
	}
	return &Client{
		url:      rawURL,
		clientID: clientID,
		dialer:   websocket.DefaultDialer,
		messages: make(chan Message, 512),
	}
}

// ClientID returns the id the client registers with.
func (c *Client) ClientID() string { return c.clientID }

// Messages returns the channel of decoded server messages. It is never
// closed.
func (c *Client) Messages() <-chan Message { return c.messages }

// Run connects and reconnects with exponential backoff until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			backoff = initialBackoff
			continue
		}

		log.Warn().
			Err(err).
			Dur("backoff", backoff).
			Msg("Stream disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// runOnce handles a single connection until it fails or ctx is done.
func (c *Client) runOnce(ctx context.Context) error {
	wsURL, err := c.buildURL()
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("stream dial failed: %w", err)
	}
	defer conn.Close()

	log.Info().Str("client_id", c.clientID).Msg("Connected to stream")

	readErrCh := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErrCh <- err
				return
			}

			msg, err := Decode(data)
			if err != nil {
				if errors.Is(err, ErrUnknownEvent) {
					log.Trace().Err(err).Msg("Ignoring stream event")
				} else {
					log.Debug().Err(err).Msg("Failed to decode stream message")
				}
				continue
			}

			select {
			case c.messages <- msg:
			case <-ctx.Done():
				readErrCh <- ctx.Err()
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return ctx.Err()
	case err := <-readErrCh:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			return nil
		}
		return err
	}
}

func (c *Client) buildURL() (string, error) {
	parsed, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse stream url: %w", err)
	}
	switch parsed.Scheme {
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}
	q := parsed.Query()
	q.Set("id", c.clientID)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
