package calendar_view_service

import (
	"sync"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

type viewDebug struct {
	mu   sync.Mutex
	data []domain.DebugInfo
}

func (d *viewDebug) AddDebugInfo(info domain.DebugInfo) {
	d.mu.Lock()
	d.data = append(d.data, info)
	d.mu.Unlock()
}

func (d *viewDebug) Reset() {
	d.mu.Lock()
	d.data = nil
	d.mu.Unlock()
}

func (d *viewDebug) Data() []domain.DebugInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	data := make([]domain.DebugInfo, len(d.data))
	copy(data, d.data)
	return data
}
