package models

import (
	"testing"
	"time"
)

func TestCertificationValid(t *testing.T) {
	expiry := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	cert := Certification{ExpiresOn: &expiry}

	// still valid on the exact expiry date, whatever the time of day
	if !cert.Valid(time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC)) {
		t.Error("certification must be valid on its expiry date")
	}
	if cert.Valid(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("certification must be invalid the day after expiry")
	}

	never := Certification{}
	if !never.Valid(time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("certification without expiry never lapses")
	}
}
