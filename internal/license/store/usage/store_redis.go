package usage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
	"licenseguard/pkg/requestcontext"
)

const (
	checksKeyPrefix     = "lg:usage:checks:"   // zset of check ids per license+domain
	failuresKeyPrefix   = "lg:usage:failures:" // zset of failed check ids per license
	outcomeKeyPrefix    = "lg:usage:outcome:"  // zset of check ids per license+outcome
	userAgentsKeyPrefix = "lg:usage:ua:"       // zset user agent -> last seen per license+domain
	ipDomainsKeyPrefix  = "lg:usage:ipdom:"    // zset domain -> last seen per ip
	licenseIPsKeyPrefix = "lg:usage:licip:"    // zset ip -> last seen per license
	recordKeyPrefix     = "lg:usage:record:"   // hash aggregate per license+domain

	// aggregate records outlive the windows so last_check survives quiet periods
	recordTTLMultiplier = 30
)

// RedisTracker shares sliding windows across engine instances. Every window is a
// sorted set scored by check time in milliseconds; distinct-count windows use the
// counted value as member, so re-adding only moves its score forward.
type RedisTracker struct {
	client    *redis.Client
	retention time.Duration
}

type RedisOption func(*RedisTracker)

// WithRedisRetention overrides how long window entries are kept.
func WithRedisRetention(d time.Duration) RedisOption {
	return func(t *RedisTracker) {
		if d > 0 {
			t.retention = d
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisTracker {
	t := &RedisTracker{client: client, retention: DefaultRetention}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *RedisTracker) RecordCheck(ctx context.Context, event *models.CheckEvent) (*models.UsageRecord, error) {
	score := float64(event.At.UnixMilli())
	horizon := strconv.FormatInt(event.At.Add(-t.retention).UnixMilli(), 10)
	aggregate := recordKey(event.LicenseKey, event.Domain)
	id := uuid.NewString()

	var record *redis.MapStringStringCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, member := range windowMembers(event, id, score) {
			pipe.ZAdd(ctx, key, member)
			pipe.ZRemRangeByScore(ctx, key, "-inf", "("+horizon)
			pipe.Expire(ctx, key, t.retention)
		}

		pipe.HSet(ctx, aggregate,
			"license_key", event.LicenseKey,
			"domain", event.Domain,
			"last_check", event.At.UTC().Format(time.RFC3339Nano),
			"ip_address", event.IPAddress,
			"user_agent", event.UserAgent,
			"status", string(event.Outcome),
		)
		pipe.HIncrBy(ctx, aggregate, "check_count", 1)
		pipe.Expire(ctx, aggregate, t.retention*recordTTLMultiplier)
		record = pipe.HGetAll(ctx, aggregate)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record check: %w", err)
	}
	return parseRecord(record.Val())
}

func (t *RedisTracker) Get(ctx context.Context, key, domain string) (*models.UsageRecord, error) {
	fields, err := t.client.HGetAll(ctx, recordKey(key, domain)).Result()
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}
	if len(fields) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return parseRecord(fields)
}

func (t *RedisTracker) CountSince(ctx context.Context, key, domain string, window time.Duration) (int, error) {
	return t.countWindow(ctx, checksKey(key, domain), window)
}

func (t *RedisTracker) DistinctDomainsForIP(ctx context.Context, ip string, window time.Duration) (int, error) {
	return t.countWindow(ctx, ipDomainsKeyPrefix+ip, window)
}

func (t *RedisTracker) DistinctIPsForLicense(ctx context.Context, key string, window time.Duration) (int, error) {
	return t.countWindow(ctx, licenseIPsKeyPrefix+key, window)
}

func (t *RedisTracker) CountFailuresSince(ctx context.Context, key string, window time.Duration) (int, error) {
	return t.countWindow(ctx, failuresKeyPrefix+key, window)
}

func (t *RedisTracker) DistinctUserAgents(ctx context.Context, key, domain string, window time.Duration) (int, error) {
	return t.countWindow(ctx, userAgentsKey(key, domain), window)
}

func (t *RedisTracker) CountOutcomeSince(ctx context.Context, key string, outcome models.Code, window time.Duration) (int, error) {
	return t.countWindow(ctx, outcomeKey(key, outcome), window)
}

func (t *RedisTracker) countWindow(ctx context.Context, key string, window time.Duration) (int, error) {
	now := requestcontext.Now(ctx)
	from := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)
	to := strconv.FormatInt(now.UnixMilli(), 10)
	n, err := t.client.ZCount(ctx, key, from, to).Result()
	if err != nil {
		return 0, fmt.Errorf("count window: %w", err)
	}
	return int(n), nil
}

// windowMembers lists the sorted-set entries one check-in adds. Restricted
// check-ins add none.
func windowMembers(event *models.CheckEvent, id string, score float64) map[string]redis.Z {
	if !event.Windowed() {
		return nil
	}
	members := map[string]redis.Z{
		checksKey(event.LicenseKey, event.Domain):   {Score: score, Member: id},
		ipDomainsKeyPrefix + event.IPAddress:        {Score: score, Member: event.Domain},
		licenseIPsKeyPrefix + event.LicenseKey:      {Score: score, Member: event.IPAddress},
		outcomeKey(event.LicenseKey, event.Outcome): {Score: score, Member: id},
	}
	if event.UserAgent != "" {
		members[userAgentsKey(event.LicenseKey, event.Domain)] = redis.Z{Score: score, Member: event.UserAgent}
	}
	if event.Failed() {
		members[failuresKeyPrefix+event.LicenseKey] = redis.Z{Score: score, Member: id}
	}
	return members
}

func checksKey(key, domain string) string {
	return checksKeyPrefix + key + ":" + domain
}

func outcomeKey(key string, outcome models.Code) string {
	return outcomeKeyPrefix + string(outcome) + ":" + key
}

func userAgentsKey(key, domain string) string {
	return userAgentsKeyPrefix + key + ":" + domain
}

func recordKey(key, domain string) string {
	return recordKeyPrefix + key + ":" + domain
}

func parseRecord(fields map[string]string) (*models.UsageRecord, error) {
	count, err := strconv.ParseInt(fields["check_count"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse check_count: %w", err)
	}
	lastCheck, err := time.Parse(time.RFC3339Nano, fields["last_check"])
	if err != nil {
		return nil, fmt.Errorf("parse last_check: %w", err)
	}
	return &models.UsageRecord{
		LicenseKey: fields["license_key"],
		Domain:     fields["domain"],
		LastCheck:  lastCheck,
		CheckCount: count,
		IPAddress:  fields["ip_address"],
		UserAgent:  fields["user_agent"],
		Status:     models.Code(fields["status"]),
	}, nil
}
