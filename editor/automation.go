package editor

import (
	"github.com/beatline/beatline"
)

func (m *Model) AddAutomationPoint(trackID, param string, at, value float64, curve beatline.Curve) string {
	return m.add("AddAutomationPoint", func(p *beatline.Project) (string, error) {
		return p.AddAutomationPoint(trackID, param, at, value, curve)
	})
}

func (m *Model) RemoveAutomationPoint(trackID, param, pointID string) bool {
	return m.run("RemoveAutomationPoint", func(p *beatline.Project) error {
		return p.RemoveAutomationPoint(trackID, param, pointID)
	})
}

func (m *Model) MoveAutomationPoint(trackID, param, pointID string, at, value float64) bool {
	return m.run("MoveAutomationPoint", func(p *beatline.Project) error {
		return p.MoveAutomationPoint(trackID, param, pointID, at, value)
	})
}

func (m *Model) SetAutomationCurve(trackID, param, pointID string, curve beatline.Curve) bool {
	return m.run("SetAutomationCurve", func(p *beatline.Project) error {
		return p.SetAutomationCurve(trackID, param, pointID, curve)
	})
}

func (m *Model) ClearAutomation(trackID, param string) bool {
	return m.run("ClearAutomation", func(p *beatline.Project) error { return p.ClearAutomation(trackID, param) })
}
