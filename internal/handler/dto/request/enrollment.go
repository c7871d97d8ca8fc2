package request

import (
	"strings"

	"enrollment-sync/internal/usecase/commands"

	"github.com/jinzhu/copier"
)

type CreateEnrollmentRequest struct {
	ExternalID      string `json:"externalId" binding:"required,max=64"`
	ParticipantName string `json:"participantName" binding:"required,max=200"`
	ResourceName    string `json:"resourceName" binding:"required,max=200"`
	ResourceType    string `json:"resourceType" binding:"required,oneof=DR BTMG"`
	PlanningPeriod  string `json:"planningPeriod" binding:"required,max=32"`
}

func (r *CreateEnrollmentRequest) ToInput() (commands.CreateEnrollmentInput, error) {
	var in commands.CreateEnrollmentInput
	if err := copier.Copy(&in, r); err != nil {
		return commands.CreateEnrollmentInput{}, err
	}
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.PlanningPeriod = strings.TrimSpace(in.PlanningPeriod)
	return in, nil
}
