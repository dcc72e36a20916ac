package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateIdempotencyKey produces the caller-side identifier attached to every
// payment initiation so that provider-side retries never double-charge.
func GenerateIdempotencyKey() string {
	return uuid.NewString()
}

// GenerateResultObjectName builds the minio object name for a result document,
// one per (order, test, clinic) tuple.
func GenerateResultObjectName(orderID, testID, clinicID, fileExtension string) string {
	if fileExtension != "" && !strings.HasPrefix(fileExtension, ".") {
		fileExtension = "." + fileExtension
	}
	return fmt.Sprintf("results/%s/%s_%s%s", clinicID, orderID, testID, fileExtension)
}
