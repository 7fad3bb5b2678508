// Copyright © 2018 One Concern

package gcs

import (
	gcsStorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Option is a functor to pass optional parameters to the gcs store
type Option func(*gcs)

// CredentialsFile points to a service account key. Application default credentials are used otherwise.
func CredentialsFile(file string) Option {
	return func(g *gcs) {
		if file != "" {
			g.clientOpts = append(g.clientOpts, option.WithCredentialsFile(file))
		}
	}
}

// Endpoint overrides the storage API endpoint, e.g. for an emulator
func Endpoint(endpoint string) Option {
	return func(g *gcs) {
		if endpoint != "" {
			g.clientOpts = append(g.clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
		}
	}
}

// Client injects a preconfigured client
func Client(client *gcsStorage.Client) Option {
	return func(g *gcs) {
		g.client = client
	}
}
