package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeChurnScan = "crm:churn-scan"
	TypeReconcile = "ledger:reconcile"
)

// Payload scopes a job to one business.
type Payload struct {
	BusinessID string `json:"businessId"`
}

func NewChurnScanTask(businessID string) (*asynq.Task, error) {
	return newTask(TypeChurnScan, businessID)
}

func NewReconcileTask(businessID string) (*asynq.Task, error) {
	return newTask(TypeReconcile, businessID)
}

func newTask(typ, businessID string) (*asynq.Task, error) {
	if businessID == "" {
		return nil, fmt.Errorf("%s: business id is required", typ)
	}
	b, err := json.Marshal(Payload{BusinessID: businessID})
	if err != nil {
		return nil, err
	}
	// at most one pending run per business and type
	return asynq.NewTask(typ, b, asynq.TaskID(typ+":"+businessID), asynq.MaxRetry(3)), nil
}

// ParsePayload decodes a task payload. A payload without a business id is
// skipped by asynq since retrying cannot fix it.
func ParsePayload(task *asynq.Task) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	if p.BusinessID == "" {
		return p, fmt.Errorf("%s: missing business id: %w", task.Type(), asynq.SkipRetry)
	}
	return p, nil
}
