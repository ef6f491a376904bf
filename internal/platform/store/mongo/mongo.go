// Package mongo wraps the official MongoDB driver for read-only reference access
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config configures the client
type Config struct {
	URI            string
	Database       string
	AppName        string
	ConnectTimeout time.Duration
}

// Client holds the driver client and the configured database
type Client struct {
	Client *mongo.Client
	DB     *mongo.Database

	// Timeout is the connect and server selection bound the client was built with
	Timeout time.Duration
}

var connect = mongo.Connect // seam

// Open builds the client and selects the database; the driver dials lazily, so an
// unreachable server surfaces on the first command rather than here
// mon may be nil
func Open(ctx context.Context, cfg Config, mon CommandLogger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: empty uri")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo: empty database")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetReadPreference(readpref.PrimaryPreferred())
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if mon != nil {
		opts.SetMonitor(monitor(mon))
	}

	mc, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{Client: mc, DB: mc.Database(cfg.Database), Timeout: timeout}, nil
}

// Collection returns a handle on the named collection of the configured database
func (c *Client) Collection(name string) *mongo.Collection { return c.DB.Collection(name) }

// Ping checks that a server is selectable
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return errors.New("mongo: nil client")
	}
	return c.Client.Ping(ctx, readpref.PrimaryPreferred())
}

// Close disconnects; nil safe
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}

func monitor(l CommandLogger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started:   l.Started,
		Succeeded: l.Succeeded,
		Failed:    l.Failed,
	}
}
