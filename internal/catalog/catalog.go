package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid 参考数据未通过校验
var ErrInvalid = errors.New("invalid reference catalog")

// Reference 参考数据：模型基底列表与兼容矩阵
type Reference struct {
	Version       string                     `yaml:"version"`
	AvatarBases   []model.AvatarBase         `yaml:"avatar_bases"`
	Compatibility []model.CompatibilityEntry `yaml:"compatibility"`
}

// Default 内置参考数据
func Default() (*Reference, error) {
	ref, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("parse built-in catalog: %w", err)
	}
	return ref, nil
}

// Load 从 YAML 文件加载参考数据；path 为空时使用内置数据
func Load(path string) (*Reference, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	ref, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return ref, nil
}

// Parse 解析并校验 YAML
func Parse(b []byte) (*Reference, error) {
	var ref Reference
	if err := yaml.Unmarshal(b, &ref); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return &ref, nil
}

// Validate 校验语义约束，汇总所有问题后一次返回
func (r *Reference) Validate() error {
	var errs []string

	if len(r.AvatarBases) == 0 {
		errs = append(errs, "avatar_bases must not be empty")
	}

	ids := make(map[string]bool, len(r.AvatarBases))
	names := make(map[string]bool, len(r.AvatarBases))
	for i, a := range r.AvatarBases {
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, fmt.Sprintf("avatar_bases[%d].id is required", i))
		} else if ids[a.ID] {
			errs = append(errs, fmt.Sprintf("avatar_bases[%d].id %q is duplicated", i, a.ID))
		}
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, fmt.Sprintf("avatar_bases[%d].name is required", i))
		} else if names[a.Name] {
			errs = append(errs, fmt.Sprintf("avatar_bases[%d].name %q is duplicated", i, a.Name))
		}
		ids[a.ID] = true
		names[a.Name] = true
	}

	pairs := make(map[compat.Pair]bool, len(r.Compatibility))
	for i, e := range r.Compatibility {
		if !names[e.Source] {
			errs = append(errs, fmt.Sprintf("compatibility[%d].source %q is not a known avatar base", i, e.Source))
		}
		if !names[e.Target] {
			errs = append(errs, fmt.Sprintf("compatibility[%d].target %q is not a known avatar base", i, e.Target))
		}
		if e.Source == e.Target {
			errs = append(errs, fmt.Sprintf("compatibility[%d] must not map %q onto itself", i, e.Source))
		}
		if !e.BoneStructure.Valid() || !e.Materials.Valid() || !e.Animations.Valid() {
			errs = append(errs, fmt.Sprintf("compatibility[%d] needs bone_structure, materials and animations", i))
		}
		p := compat.Pair{Source: e.Source, Target: e.Target}
		if pairs[p] {
			errs = append(errs, fmt.Sprintf("compatibility[%d] %s -> %s is duplicated", i, e.Source, e.Target))
		}
		pairs[p] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// AvatarNames 模型基底名称（保持原顺序）
func (r *Reference) AvatarNames() []string {
	out := make([]string, 0, len(r.AvatarBases))
	for _, a := range r.AvatarBases {
		out = append(out, a.Name)
	}
	return out
}

// Tables 与资源列表一起构建内存参考表
func (r *Reference) Tables(assets []model.Asset) *compat.Tables {
	return compat.NewTables(r.AvatarBases, assets, r.Compatibility)
}
