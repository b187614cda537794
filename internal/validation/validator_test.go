// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	Count int    `validate:"min=1,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&sampleRequest{Name: "x", Count: 5}); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStructSingleFailure(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Name: "x", Count: 0})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("len(Errors()) = %d, want 1", len(errs))
	}
	if errs[0].Field() != "Count" || errs[0].Tag() != "min" {
		t.Errorf("error = %s/%s, want Count/min", errs[0].Field(), errs[0].Tag())
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Count" {
		t.Errorf("Details.field = %v, want Count", apiErr.Details["field"])
	}
}

func TestValidateStructMultipleFailures(t *testing.T) {
	err := ValidateStruct(&sampleRequest{})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("len(Errors()) = %d, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-failure Details missing fields list")
	}
	if !strings.Contains(apiErr.Message, "Name") || !strings.Contains(apiErr.Message, "Count") {
		t.Errorf("Message = %q, want both field names", apiErr.Message)
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
