package testutil

import (
	"github.com/google/uuid"
)

// Fixed IDs for deterministic assertions.
var (
	RecommendationID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
)
