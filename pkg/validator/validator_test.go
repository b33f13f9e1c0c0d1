package validator

import "testing"

type rolePayload struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Description   string   `json:"description" validate:"max=500"`
	PermissionIDs []string `json:"permission_ids" validate:"dive,uuid4"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := rolePayload{
		Name:          "Marketing Specialist",
		Description:   "Campaign managers",
		PermissionIDs: []string{"7c7f3f3e-5a3a-4f1e-9a94-1d1f5a3f9b2c"},
	}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	payload := rolePayload{
		Name:          "",
		PermissionIDs: []string{"not-a-uuid"},
	}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	vErrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	if len(vErrs) != 2 {
		t.Fatalf("expected 2 validation errors, got %d", len(vErrs))
	}

	fields := vErrs.Fields()
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected name field in details, got %v", fields)
	}
}
