package shared

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"homeserve/shared/cache"
	"homeserve/shared/constant"
	"homeserve/shared/dto"
	"homeserve/shared/failure"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{dto.Eq(table, fieldID, id)}}
}

// BuildCacheKey joins the prefix and parts with ':'.
func BuildCacheKey(prefix string, parts ...any) string {
	var builder strings.Builder

	builder.WriteString(prefix)

	for _, part := range parts {
		builder.WriteString(":")
		builder.WriteString(fmt.Sprint(part))
	}

	return builder.String()
}

// InvalidateCaches removes every key under prefix. Failures are logged, never returned.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// ActorFromContext returns the authenticated user id and role stored by the auth middleware.
func ActorFromContext(ctx context.Context) (userID int64, role string) {
	userID, _ = ctx.Value(constant.ContextKeyUserID).(int64)
	role, _ = ctx.Value(constant.ContextKeyUserRole).(string)

	return userID, role
}

// ParseID parses a positive path identifier.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.InvalidInput(fmt.Sprintf("invalid id %q", value)) // nolint:wrapcheck
	}

	return id, nil
}
