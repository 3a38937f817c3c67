package domain

import "testing"

func TestAutomationMapIsTotal(t *testing.T) {
	// Empty lists are fine, missing entries are not.
	for _, typ := range []Type{TypeSale, TypeLetting} {
		for _, stage := range StageOrder {
			if _, ok := AutomationsFor(typ, stage); !ok {
				t.Errorf("%s/%s has no automation entry", typ, stage)
			}
		}
	}
}

func TestAutomationsForUnknown(t *testing.T) {
	if _, ok := AutomationsFor(TypeSale, Stage("probate")); ok {
		t.Error("expected no entry for unknown stage")
	}
	if _, ok := AutomationsFor(Type("auction"), StageListed); ok {
		t.Error("expected no entry for unknown type")
	}
}

func TestIsKnownStage(t *testing.T) {
	for _, stage := range StageOrder {
		if !IsKnownStage(stage) {
			t.Errorf("%s should be known", stage)
		}
	}
	for _, bad := range []Stage{"", "Valuation", "sold", "under_offer"} {
		if IsKnownStage(bad) {
			t.Errorf("%q should not be known", bad)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !StageCompletion.Terminal() {
		t.Error("completion should be terminal")
	}
	if StageContract.Terminal() {
		t.Error("contract should not be terminal")
	}
}
