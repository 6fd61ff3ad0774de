package model

import "time"

// Collection 资源合集
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AssetIDs    []int64   `json:"assetIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AssetCount 合集内资源数量
func (c Collection) AssetCount() int {
	return len(c.AssetIDs)
}
