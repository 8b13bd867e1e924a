package state

// SyncReport is the full comparison result across all tools. It is built
// fresh on every invocation and never persisted; all summary counts are
// derived from Items on each call so the report stays internally
// consistent even when callers filter the item list downstream.
type SyncReport struct {
	Canonical   *CanonicalState          `json:"canonical"`
	ToolConfigs map[ToolName]*ToolConfig `json:"tool_configs"`
	Items       []SyncItem               `json:"items"`
}

func (r *SyncReport) countStatus(s SyncStatus) int {
	n := 0
	for _, i := range r.Items {
		if i.Status == s {
			n++
		}
	}
	return n
}

// SyncedCount is the number of items with status synced.
func (r *SyncReport) SyncedCount() int { return r.countStatus(StatusSynced) }

// DriftCount is the number of items with status drift.
func (r *SyncReport) DriftCount() int { return r.countStatus(StatusDrift) }

// MissingCount is the number of items with status missing.
func (r *SyncReport) MissingCount() int { return r.countStatus(StatusMissing) }

// ExtraCount is the number of items with status extra.
func (r *SyncReport) ExtraCount() int { return r.countStatus(StatusExtra) }

// FixableCount is the number of items carrying a fix action.
func (r *SyncReport) FixableCount() int {
	n := 0
	for _, i := range r.Items {
		if i.FixAction != nil {
			n++
		}
	}
	return n
}

// OverallStatus is drift when any drift, missing, or extra item exists,
// otherwise synced. It is a pure function of Items.
func (r *SyncReport) OverallStatus() SyncStatus {
	if r.DriftCount() > 0 || r.MissingCount() > 0 || r.ExtraCount() > 0 {
		return StatusDrift
	}
	return StatusSynced
}
