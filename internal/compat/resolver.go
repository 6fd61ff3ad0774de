package compat

import (
	"fmt"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// Detail 单个检查项的结论
type Detail struct {
	Aspect  string     `json:"aspect"`
	Status  model.Mark `json:"status"`
	Message string     `json:"message"`
}

// Result 兼容性检查结果
type Result struct {
	Overall model.Mark `json:"overall"`
	Details []Detail   `json:"details"`
}

// Resolver 兼容性解析器，无状态，参考数据在构造时注入
type Resolver struct {
	catalog Catalog
}

// NewResolver 创建解析器
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// ResolveAsset 资源 ↔ 模型基底
//
// 文件格式与材质系统视为总是兼容，模型基底与骨骼绑定取决于资源声明的兼容列表。
func (r *Resolver) ResolveAsset(avatarID string, assetID int64) (Result, error) {
	avatar, err := r.catalog.AvatarBase(avatarID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve asset compatibility: %w", err)
	}
	asset, err := r.catalog.Asset(assetID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve asset compatibility: %w", err)
	}

	compatible := asset.IsCompatibleWith(avatar.Name)
	fit := model.StatusPartial
	rigging := msgRiggingAdjust
	if compatible {
		fit = model.StatusYes
		rigging = msgRiggingOK
	}

	return Result{
		Overall: fit.Mark(),
		Details: []Detail{
			{Aspect: AspectAvatarBase, Status: fit.Mark(), Message: avatarBaseMessage(avatar.Name, compatible)},
			{Aspect: AspectFileFormat, Status: model.MarkYes, Message: msgFileFormat},
			{Aspect: AspectAnimationRigging, Status: fit.Mark(), Message: rigging},
			{Aspect: AspectMaterialSystem, Status: model.MarkYes, Message: msgMaterialSystem},
		},
	}, nil
}

// ResolveAvatars 模型基底 ↔ 模型基底（有向）
//
// 矩阵中没有记录时返回 unknown 结果而不是错误；source 与 target 相同时直接判定为完全兼容。
func (r *Resolver) ResolveAvatars(sourceID, targetID string) (Result, error) {
	source, err := r.catalog.AvatarBase(sourceID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve avatar compatibility: %w", err)
	}
	target, err := r.catalog.AvatarBase(targetID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve avatar compatibility: %w", err)
	}

	if source.ID == target.ID {
		return sameAvatarResult(), nil
	}

	entry, ok, err := r.catalog.CompatibilityEntry(source.Name, target.Name)
	if err != nil {
		return Result{}, fmt.Errorf("resolve avatar compatibility: %w", err)
	}
	if !ok {
		return unknownResult(), nil
	}
	return entryResult(entry), nil
}

func entryResult(e model.CompatibilityEntry) Result {
	return Result{
		Overall: e.Overall().Mark(),
		Details: []Detail{
			{Aspect: AspectBoneStructure, Status: e.BoneStructure.Mark(), Message: statusMessage(boneStructureMessages, e.BoneStructure)},
			{Aspect: AspectMaterials, Status: e.Materials.Mark(), Message: statusMessage(materialsMessages, e.Materials)},
			{Aspect: AspectAnimations, Status: e.Animations.Mark(), Message: statusMessage(animationsMessages, e.Animations)},
			{Aspect: AspectNotes, Status: model.MarkInfo, Message: e.Notes},
		},
	}
}

func unknownResult() Result {
	return Result{
		Overall: model.MarkUnknown,
		Details: []Detail{
			{Aspect: AspectCompatibilityData, Status: model.MarkUnknown, Message: msgNoData},
			{Aspect: AspectRecommendation, Status: model.MarkInfo, Message: msgRecommendation},
		},
	}
}

func sameAvatarResult() Result {
	return Result{
		Overall: model.MarkYes,
		Details: []Detail{
			{Aspect: AspectBoneStructure, Status: model.MarkYes, Message: msgSameBones},
			{Aspect: AspectMaterials, Status: model.MarkYes, Message: msgSameMaterials},
			{Aspect: AspectAnimations, Status: model.MarkYes, Message: msgSameAnimations},
			{Aspect: AspectNotes, Status: model.MarkInfo, Message: msgSameNotes},
		},
	}
}
