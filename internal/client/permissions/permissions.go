// Package permissions maps a user's roles and stage profile to the tracking
// stages they may record. It is the single source of truth for the role->stage
// mapping: the stage option list and the server-rejection handler both consume
// it, so the two can never drift apart.
package permissions

import "github.com/agritrack/agritrack-cli/internal/client/models"

// Stage profiles assigned to supply-chain operators.
const (
	ProfileFarmer           = "FARMER"
	ProfileProcessor        = "PROCESSOR"
	ProfileWarehouseManager = "WAREHOUSE_MANAGER"
	ProfileDistributor      = "DISTRIBUTOR"
	ProfileRetailer         = "RETAILER"
)

// Well-known stage labels. Free-form labels are also accepted by the backend;
// this is the fixed vocabulary the permission mapping is defined over.
const (
	StageFarm         = "Farm"
	StageProcessing   = "Processing"
	StageQualityCheck = "Quality Check"
	StageWarehouse    = "Warehouse"
	StageDistribution = "Distribution"
	StageRetail       = "Retail"
)

// AllStages is the full stage vocabulary in supply-chain order.
var AllStages = []string{
	StageFarm,
	StageProcessing,
	StageQualityCheck,
	StageWarehouse,
	StageDistribution,
	StageRetail,
}

// profileStages is the fixed stage-profile -> permitted-stages table.
var profileStages = map[string][]string{
	ProfileFarmer:           {StageFarm},
	ProfileProcessor:        {StageProcessing, StageQualityCheck},
	ProfileWarehouseManager: {StageWarehouse},
	ProfileDistributor:      {StageDistribution},
	ProfileRetailer:         {StageRetail},
}

// AllowedStages returns the ordered set of stage labels the actor may submit.
//
// Administrators may submit any stage regardless of profile. Everyone else is
// limited to their stage profile's stages; an actor without a profile may view
// timelines but submit nothing. The result is always a fresh slice.
func AllowedStages(roles []string, stageProfile string) []string {
	for _, role := range roles {
		if role == models.RoleAdmin {
			return append([]string(nil), AllStages...)
		}
	}
	stages, ok := profileStages[stageProfile]
	if !ok {
		return nil
	}
	return append([]string(nil), stages...)
}

// CanSubmit reports whether the actor may submit the given stage label.
// Matching is exact: a free-form label is only submittable by administrators,
// for whom any label is allowed.
func CanSubmit(roles []string, stageProfile string, stage string) bool {
	for _, role := range roles {
		if role == models.RoleAdmin {
			return true
		}
	}
	for _, allowed := range profileStages[stageProfile] {
		if allowed == stage {
			return true
		}
	}
	return false
}
