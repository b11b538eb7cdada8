package domain

import "fmt"

// OwnerRef владелец расписания или записи: либо тенант целиком (одиночный
// специалист), либо конкретный агент тенанта
// Нулевое значение - TenantLevel
type OwnerRef struct {
	agentID int64
}

// TenantLevel владелец уровня тенанта (агент не назначается)
func TenantLevel() OwnerRef {
	return OwnerRef{}
}

// AgentOwner владелец - конкретный агент
func AgentOwner(agentID int64) OwnerRef {
	return OwnerRef{agentID: agentID}
}

// OwnerFromNullable восстанавливает владельца из nullable колонки agent_id
func OwnerFromNullable(agentID *int64) OwnerRef {
	if agentID == nil || *agentID <= 0 {
		return TenantLevel()
	}
	return AgentOwner(*agentID)
}

// IsTenantLevel returns true for the tenant-level variant
func (o OwnerRef) IsTenantLevel() bool {
	return o.agentID <= 0
}

// AgentID returns the agent id and true for the agent variant
func (o OwnerRef) AgentID() (int64, bool) {
	if o.IsTenantLevel() {
		return 0, false
	}
	return o.agentID, true
}

// Nullable значение для колонки agent_id (nil для уровня тенанта)
func (o OwnerRef) Nullable() *int64 {
	if o.IsTenantLevel() {
		return nil
	}
	id := o.agentID
	return &id
}

func (o OwnerRef) String() string {
	if o.IsTenantLevel() {
		return "tenant"
	}
	return fmt.Sprintf("agent:%d", o.agentID)
}
