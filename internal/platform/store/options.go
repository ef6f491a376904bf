package store

import (
	"errors"

	"pfascheck/internal/platform/logger"
	mgo "pfascheck/internal/platform/store/mongo"
)

// Option adjusts a Store before any backend is opened
type Option func(*Store) error

// WithLogger replaces the "store" logger handed to the backend tracers
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithQuerier installs an already open postgres seam; Open then skips dialing pg
func WithQuerier(q Querier) Option {
	return func(s *Store) error {
		if q == nil {
			return errors.New("store: nil querier")
		}
		s.PG = q
		return nil
	}
}

// WithMongoClient installs a connected client; Open then skips dialing mongo
func WithMongoClient(c *mgo.Client) Option {
	return func(s *Store) error {
		if c == nil {
			return errors.New("store: nil mongo client")
		}
		s.Mongo = c
		return nil
	}
}
