package compat

import (
	"fmt"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// 检查项名称
const (
	AspectAvatarBase       = "Avatar Base"
	AspectFileFormat       = "File Format"
	AspectAnimationRigging = "Animation Rigging"
	AspectMaterialSystem   = "Material System"

	AspectBoneStructure = "Bone Structure"
	AspectMaterials     = "Materials"
	AspectAnimations    = "Animations"
	AspectNotes         = "Notes"

	AspectCompatibilityData = "Compatibility Data"
	AspectRecommendation    = "Recommendation"
)

// 模型基底之间各方面的固定文案
var (
	boneStructureMessages = map[model.Status]string{
		model.StatusYes:     "Bone structures are fully compatible",
		model.StatusMostly:  "Bone structures are mostly compatible with minor differences",
		model.StatusPartial: "Bone structures are partially compatible, manual weight painting may be needed",
		model.StatusNo:      "Bone structures are not compatible",
	}
	materialsMessages = map[model.Status]string{
		model.StatusYes:     "Material setups are fully compatible",
		model.StatusMostly:  "Materials are mostly compatible, some shader tweaks may be needed",
		model.StatusPartial: "Materials are partially compatible, expect shader and texture adjustments",
		model.StatusNo:      "Materials are not compatible",
	}
	animationsMessages = map[model.Status]string{
		model.StatusYes:     "Animations transfer without changes",
		model.StatusMostly:  "Animations mostly transfer, some clips may need retargeting",
		model.StatusPartial: "Animations partially transfer, retargeting required",
		model.StatusNo:      "Animations are not compatible",
	}
)

const (
	msgNoData         = "No compatibility data available for this avatar combination"
	msgRecommendation = "Test with a simple asset first before porting larger content"

	msgFileFormat     = "Unity package format is compatible"
	msgMaterialSystem = "Material system is compatible"
	msgRiggingOK      = "Rigging matches the avatar base"
	msgRiggingAdjust  = "Rigging may need adjustments for this avatar base"

	msgSameBones      = "Same avatar base, bone structure is identical"
	msgSameMaterials  = "Same avatar base, materials are identical"
	msgSameAnimations = "Same avatar base, animations are identical"
	msgSameNotes      = "Source and target are the same avatar base"
)

func avatarBaseMessage(avatarName string, compatible bool) string {
	if compatible {
		return fmt.Sprintf("This asset is designed for %s", avatarName)
	}
	return fmt.Sprintf("This asset is not made for %s and may need adjustments", avatarName)
}

func statusMessage(table map[model.Status]string, s model.Status) string {
	if msg, ok := table[s]; ok {
		return msg
	}
	return s.String()
}
