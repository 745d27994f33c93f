// Copyright (C) 2026 TruthLens (truthlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/storage"
)

// gcsBatchSize triggers an upload once this many entries are buffered.
const gcsBatchSize = 100

// GCSExporter ships log entries to a Google Cloud Storage bucket as
// newline-delimited JSON objects named "{prefix}/{service}/{timestamp}.jsonl".
//
// Entries are buffered in memory and uploaded in batches; a partial batch is
// uploaded on Flush. Upload failures keep the batch buffered for the next
// attempt.
type GCSExporter struct {
	client  *storage.Client
	bucket  string
	prefix  string
	service string

	mu     sync.Mutex
	buffer []LogEntry
}

// NewGCSExporter builds an exporter over an existing storage client. The
// client's credentials are resolved by the google-cloud-go library
// (GOOGLE_APPLICATION_CREDENTIALS or workload identity).
func NewGCSExporter(client *storage.Client, bucket, prefix, service string) *GCSExporter {
	if prefix == "" {
		prefix = "logs"
	}
	return &GCSExporter{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		service: service,
		buffer:  make([]LogEntry, 0, gcsBatchSize),
	}
}

// Export buffers the entry and uploads when a full batch accumulates.
func (e *GCSExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	e.buffer = append(e.buffer, entry)
	full := len(e.buffer) >= gcsBatchSize
	e.mu.Unlock()

	if full {
		return e.uploadBatch(ctx)
	}
	return nil
}

// Flush uploads any partial batch.
func (e *GCSExporter) Flush(ctx context.Context) error {
	return e.uploadBatch(ctx)
}

// Close closes the underlying storage client.
func (e *GCSExporter) Close() error {
	return e.client.Close()
}

func (e *GCSExporter) uploadBatch(ctx context.Context) error {
	e.mu.Lock()
	if len(e.buffer) == 0 {
		e.mu.Unlock()
		return nil
	}
	batch := e.buffer
	e.buffer = make([]LogEntry, 0, gcsBatchSize)
	e.mu.Unlock()

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, entry := range batch {
		if err := enc.Encode(map[string]any{
			"timestamp": entry.Timestamp.UTC().Format(time.RFC3339Nano),
			"level":     entry.Level.String(),
			"message":   entry.Message,
			"service":   entry.Service,
			"attrs":     entry.Attrs,
		}); err != nil {
			return fmt.Errorf("encode log entry: %w", err)
		}
	}

	name := fmt.Sprintf("%s/%s/%s.jsonl", e.prefix, e.service,
		time.Now().UTC().Format("2006-01-02T15-04-05.000000000"))
	writer := e.client.Bucket(e.bucket).Object(name).NewWriter(ctx)
	writer.ContentType = "application/x-ndjson"
	if _, err := writer.Write(body.Bytes()); err != nil {
		e.requeue(batch)
		_ = writer.Close()
		return fmt.Errorf("write log batch to gcs: %w", err)
	}
	if err := writer.Close(); err != nil {
		e.requeue(batch)
		return fmt.Errorf("finalize log batch upload: %w", err)
	}
	return nil
}

func (e *GCSExporter) requeue(batch []LogEntry) {
	e.mu.Lock()
	e.buffer = append(batch, e.buffer...)
	e.mu.Unlock()
}

var _ LogExporter = (*GCSExporter)(nil)
