package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pinecove/internal/domain/calendar"
	"pinecove/internal/usecase"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the explicitly constructed, injectable cache service behind both
// the calendar materialization and the availability result memo. Never a
// hidden singleton: it is handed to the components that need it.
type Cache struct {
	client          *redis.Client
	calendarTTL     time.Duration
	availabilityTTL time.Duration
	logger          *slog.Logger
}

func New(client *redis.Client, calendarTTL, availabilityTTL time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client:          client,
		calendarTTL:     calendarTTL,
		availabilityTTL: availabilityTTL,
		logger:          logger,
	}
}

func calendarKey(resourceID uuid.UUID, d calendar.Date) string {
	return fmt.Sprintf("calendar:%s:%s", resourceID, d)
}

func availabilityKey(resourceID uuid.UUID, start, end calendar.Date, guests int) string {
	return fmt.Sprintf("avail:%s:%s:%s:%d", resourceID, start, end, guests)
}

func availabilityTag(resourceID uuid.UUID) string {
	return fmt.Sprintf("avail:%s:*", resourceID)
}

// Read returns whatever the cache holds for [start, end]; missing days are
// simply absent. It never fails the caller: errors degrade to an empty
// calendar, which the status engine treats optimistically.
func (c *Cache) Read(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date) ([]calendar.Entry, error) {
	dates := calendar.DatesBetween(start, end.AddDays(1))
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = calendarKey(resourceID, d)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("calendar cache read failed", "resource_id", resourceID, "error", err)
		return nil, nil
	}

	var entries []calendar.Entry
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var entry calendar.Entry
		if err := json.Unmarshal([]byte(s), &entry); err != nil {
			c.logger.Warn("calendar cache entry corrupt, skipping", "resource_id", resourceID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Write replaces the cached days wholesale with a fresh upstream snapshot.
func (c *Cache) Write(ctx context.Context, resourceID uuid.UUID, entries []calendar.Entry) error {
	pipe := c.client.Pipeline()
	for _, entry := range entries {
		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal calendar entry: %w", err)
		}
		pipe.Set(ctx, calendarKey(resourceID, entry.Date), value, c.calendarTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write calendar cache: %w", err)
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int) (*usecase.AvailabilityResult, bool) {
	raw, err := c.client.Get(ctx, availabilityKey(resourceID, start, end, guests)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("availability cache read failed", "resource_id", resourceID, "error", err)
		}
		return nil, false
	}

	var result usecase.AvailabilityResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *Cache) Put(ctx context.Context, resourceID uuid.UUID, start, end calendar.Date, guests int, result usecase.AvailabilityResult) {
	value, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, availabilityKey(resourceID, start, end, guests), value, c.availabilityTTL).Err(); err != nil {
		c.logger.Warn("availability cache write failed", "resource_id", resourceID, "error", err)
	}
}

// InvalidateResource drops every memoized availability result tagged with the
// resource, so a fresh commit is visible immediately.
func (c *Cache) InvalidateResource(ctx context.Context, resourceID uuid.UUID) error {
	iter := c.client.Scan(ctx, 0, availabilityTag(resourceID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached availability: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan availability keys: %w", err)
	}
	return nil
}
