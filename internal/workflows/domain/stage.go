// Package domain holds the workflow stage machine: the enumerated stage
// sets per workflow type and the total stage-to-automation mapping.
package domain

import (
	"brokerage_backend/internal/automation"
)

// Type distinguishes a sales process from a lettings process. Both share
// the same stage names; the automations attached to each stage differ.
type Type string

const (
	TypeSale    Type = "sale"
	TypeLetting Type = "letting"
)

// IsKnownType reports whether t is an enumerated workflow type.
func IsKnownType(t Type) bool {
	switch t {
	case TypeSale, TypeLetting:
		return true
	}
	return false
}

// Stage is a named step in a property workflow.
type Stage string

const (
	StageValuation   Stage = "valuation"
	StageInstruction Stage = "instruction"
	StageListed      Stage = "listed"
	StageViewing     Stage = "viewing"
	StageOffer       Stage = "offer"
	StageContract    Stage = "contract"
	StageCompletion  Stage = "completion"
)

// StageOrder is the happy-path progression. Transitions are not forced to
// follow it: any enumerated stage may be set at any time (last write wins),
// the order only documents intent and drives stalled-stage reminders.
var StageOrder = []Stage{
	StageValuation,
	StageInstruction,
	StageListed,
	StageViewing,
	StageOffer,
	StageContract,
	StageCompletion,
}

// IsKnownStage reports whether s is an enumerated stage. Unknown stage
// names are rejected at the service boundary rather than written through.
func IsKnownStage(s Stage) bool {
	switch s {
	case StageValuation, StageInstruction, StageListed, StageViewing,
		StageOffer, StageContract, StageCompletion:
		return true
	}
	return false
}

// Terminal reports whether the stage ends the workflow. Completed
// workflows are archived with a completion timestamp and never progressed
// again by automation (a manual stage-set is still honored).
func (s Stage) Terminal() bool { return s == StageCompletion }

// saleAutomations maps every sale stage to its automation list. The map is
// total over StageOrder: a stage with nothing to do carries an explicit
// empty slice so a missing entry is a programming error the tests catch,
// not a silent no-op.
var saleAutomations = map[Stage][]automation.Action{
	StageValuation: {
		automation.Email("valuation_confirmation", "Your valuation for {{property_address}}"),
		automation.Appointment("valuation", 2),
	},
	StageInstruction: {
		automation.Email("instruction_welcome", "Welcome aboard — selling {{property_address}}"),
		automation.Appointment("photography", 3),
	},
	StageListed: {
		automation.Email("listing_live", "{{property_address}} is now on the market"),
		automation.SMS("listing_live"),
	},
	StageViewing: {
		automation.Email("viewing_confirmation", "Viewing confirmed: {{property_address}}"),
		automation.SMS("viewing_confirmation"),
	},
	StageOffer: {
		automation.Email("offer_received", "Offer received on {{property_address}}"),
		automation.WhatsApp("offer_received"),
	},
	StageContract: {
		automation.Email("contract_update", "Contract progress on {{property_address}}"),
		automation.Document("memorandum_of_sale"),
	},
	StageCompletion: {
		automation.Email("completion_congrats", "Congratulations — {{property_address}} has completed"),
		automation.Document("completion_statement"),
	},
}

// lettingAutomations is the lettings counterpart. Lettings valuations are
// booked by the negotiator directly, so that stage intentionally runs no
// automations.
var lettingAutomations = map[Stage][]automation.Action{
	StageValuation: {},
	StageInstruction: {
		automation.Email("instruction_welcome", "Welcome aboard — letting {{property_address}}"),
		automation.Appointment("photography", 3),
	},
	StageListed: {
		automation.Email("listing_live", "{{property_address}} is now listed to let"),
	},
	StageViewing: {
		automation.Email("viewing_confirmation", "Viewing confirmed: {{property_address}}"),
		automation.SMS("viewing_confirmation"),
	},
	StageOffer: {
		automation.Email("offer_received", "Application received for {{property_address}}"),
		automation.WhatsApp("offer_received"),
	},
	StageContract: {
		automation.Email("contract_update", "Tenancy paperwork for {{property_address}}"),
		automation.Document("tenancy_agreement"),
	},
	StageCompletion: {
		automation.Email("completion_congrats", "Move-in day for {{property_address}}"),
		automation.Document("inventory_report"),
	},
}

// AutomationsFor returns the automation list for a stage of the given
// workflow type. The second return is false when the stage or type is not
// enumerated; callers reject before reaching here, so false indicates a
// bug rather than bad input.
func AutomationsFor(t Type, s Stage) ([]automation.Action, bool) {
	var table map[Stage][]automation.Action
	switch t {
	case TypeSale:
		table = saleAutomations
	case TypeLetting:
		table = lettingAutomations
	default:
		return nil, false
	}
	actions, ok := table[s]
	return actions, ok
}
