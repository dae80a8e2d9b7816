package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	AcademyListKey        = "academies:all"
	AcademyKeyPrefix      = "academy:%s"
	AcademyClassesPrefix  = "academy:%s:classes"
	AcademySchedulePrefix = "academy:%s:schedule"
	AcademyPricesPrefix   = "academy:%s:prices"
)

const (
	AcademyListTTL = 2 * time.Minute
	AcademyTTL     = 10 * time.Minute
	ClassesTTL     = 5 * time.Minute
)

func AcademyKey(academyID string) string {
	return fmt.Sprintf(AcademyKeyPrefix, academyID)
}

func AcademyClassesKey(academyID string) string {
	return fmt.Sprintf(AcademyClassesPrefix, academyID)
}

func AcademyScheduleKey(academyID string) string {
	return fmt.Sprintf(AcademySchedulePrefix, academyID)
}

func AcademyPricesKey(academyID string) string {
	return fmt.Sprintf(AcademyPricesPrefix, academyID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateAcademy drops every cached projection of one academy, plus the
// catalogue listing.
func InvalidateAcademy(ctx context.Context, academyID string) {
	Invalidate(ctx,
		AcademyListKey,
		AcademyKey(academyID),
		AcademyClassesKey(academyID),
		AcademyScheduleKey(academyID),
		AcademyPricesKey(academyID),
	)
}
