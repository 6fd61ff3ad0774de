package model

// CompatibilityEntry 兼容矩阵中的一条记录，按 (Source, Target) 有向查找
type CompatibilityEntry struct {
	Source        string `json:"source" yaml:"source"`
	Target        string `json:"target" yaml:"target"`
	BoneStructure Status `json:"boneStructure" yaml:"bone_structure"`
	Materials     Status `json:"materials" yaml:"materials"`
	Animations    Status `json:"animations" yaml:"animations"`
	Notes         string `json:"notes" yaml:"notes"`
}

// Overall 三个方面中最差的状态
func (e CompatibilityEntry) Overall() Status {
	return Worst(e.BoneStructure, e.Materials, e.Animations)
}
