package model

import "time"

// AssetType 资源类型
type AssetType string

const (
	AssetTypeAvatar    AssetType = "avatar"    // 模型
	AssetTypeClothing  AssetType = "clothing"  // 服装
	AssetTypeProp      AssetType = "prop"      // 道具
	AssetTypeTexture   AssetType = "texture"   // 贴图
	AssetTypeAccessory AssetType = "accessory" // 配饰
)

// AllAssetTypes 所有资源类型（按展示顺序）
var AllAssetTypes = []AssetType{
	AssetTypeAvatar,
	AssetTypeClothing,
	AssetTypeProp,
	AssetTypeTexture,
	AssetTypeAccessory,
}

// Valid 是否为已知类型
func (t AssetType) Valid() bool {
	for _, v := range AllAssetTypes {
		if v == t {
			return true
		}
	}
	return false
}

// AvatarBase 模型基底（参考数据，运行期只读）
type AvatarBase struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Asset 本地资源记录
//
// FilePath 只作为引用展示，程序不会读取该文件。
type Asset struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Type           AssetType  `json:"type"`
	Creator        string     `json:"creator"`
	Description    string     `json:"description"`
	FilePath       string     `json:"filePath"`
	FileSize       int64      `json:"fileSize"` // 字节
	Version        string     `json:"version"`
	Tags           []string   `json:"tags"`
	CompatibleWith []string   `json:"compatibleWith"` // 模型基底名称
	Favorite       bool       `json:"favorite"`
	Notes          string     `json:"notes"`
	DateAdded      time.Time  `json:"dateAdded"`
	LastUsed       *time.Time `json:"lastUsed"`
}

// IsCompatibleWith 声明的兼容列表中是否包含该模型基底
func (a Asset) IsCompatibleWith(avatarName string) bool {
	for _, name := range a.CompatibleWith {
		if name == avatarName {
			return true
		}
	}
	return false
}

// AssetStats 资源统计
type AssetStats struct {
	Total      int               `json:"total"`
	Favorites  int               `json:"favorites"`
	TotalBytes int64             `json:"totalBytes"`
	ByType     map[AssetType]int `json:"byType"`
}
