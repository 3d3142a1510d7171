// Package cache provides a small TTL cache for content fetched from the
// platform, so repeated page views do not refetch the same notebook.
package cache
