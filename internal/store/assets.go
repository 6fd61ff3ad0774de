package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// 资源列表可用的排序字段 -> 列名
var assetSortColumns = map[string]string{
	"name":      "a.name COLLATE NOCASE",
	"type":      "a.type",
	"creator":   "a.creator COLLATE NOCASE",
	"fileSize":  "a.file_size",
	"dateAdded": "a.date_added",
	"lastUsed":  "a.last_used",
}

// ValidAssetSort 排序字段是否受支持
func ValidAssetSort(sortBy string) bool {
	_, ok := assetSortColumns[sortBy]
	return ok
}

// AssetQueryOptions 资源查询选项
type AssetQueryOptions struct {
	Type          *model.AssetType
	Keyword       string // 名称/作者/描述/标签模糊匹配
	AvatarBase    string // 声明兼容的模型基底名称
	CollectionID  string
	FavoritesOnly bool
	UsedOnly      bool   // 只返回有使用记录的资源
	SortBy        string // 见 assetSortColumns，默认 dateAdded
	SortDesc      bool
	Limit         int
	Offset        int
}

// 关键字按字面匹配，LIKE 通配符需转义
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (opts AssetQueryOptions) where() (string, []any) {
	clause := " WHERE 1=1"
	args := []any{}

	if opts.Type != nil {
		clause += " AND a.type = ?"
		args = append(args, string(*opts.Type))
	}
	if kw := strings.TrimSpace(opts.Keyword); kw != "" {
		like := "%" + likeEscaper.Replace(kw) + "%"
		clause += ` AND (a.name LIKE ? ESCAPE '\' OR a.creator LIKE ? ESCAPE '\' OR a.description LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM asset_tags t WHERE t.asset_id = a.id AND t.tag LIKE ? ESCAPE '\'))`
		args = append(args, like, like, like, like)
	}
	if opts.AvatarBase != "" {
		clause += " AND EXISTS (SELECT 1 FROM asset_compatibility c WHERE c.asset_id = a.id AND c.avatar_name = ?)"
		args = append(args, opts.AvatarBase)
	}
	if opts.CollectionID != "" {
		clause += " AND EXISTS (SELECT 1 FROM collection_assets ca WHERE ca.asset_id = a.id AND ca.collection_id = ?)"
		args = append(args, opts.CollectionID)
	}
	if opts.FavoritesOnly {
		clause += " AND a.favorite = 1"
	}
	if opts.UsedOnly {
		clause += " AND a.last_used IS NOT NULL"
	}
	return clause, args
}

const assetColumns = `a.id, a.name, a.type, a.creator, a.description, a.file_path, a.file_size,
	a.version, a.favorite, a.notes, a.date_added, a.last_used`

// ListAssets 按条件查询资源
func (s *Store) ListAssets(opts AssetQueryOptions) ([]model.Asset, error) {
	where, args := opts.where()
	query := "SELECT " + assetColumns + " FROM assets a" + where

	col, ok := assetSortColumns[opts.SortBy]
	if !ok {
		col = assetSortColumns["dateAdded"]
	}
	dir := "ASC"
	if opts.SortDesc {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, a.id %s", col, dir, dir)

	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assets failed: %w", err)
	}
	defer rows.Close()

	out := []model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets failed: %w", err)
	}

	if err := s.attachDetails(out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountAssets 统计符合条件的资源数量
func (s *Store) CountAssets(opts AssetQueryOptions) (int, error) {
	where, args := opts.where()
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM assets a"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assets failed: %w", err)
	}
	return count, nil
}

// Asset 按 id 获取资源
func (s *Store) Asset(id int64) (model.Asset, error) {
	row := s.db.QueryRow("SELECT "+assetColumns+" FROM assets a WHERE a.id = ?", id)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Asset{}, fmt.Errorf("asset %d: %w", id, ErrNotFound)
		}
		return model.Asset{}, err
	}
	list := []model.Asset{a}
	if err := s.attachDetails(list); err != nil {
		return model.Asset{}, err
	}
	return list[0], nil
}

func insertAsset(db execer, a *model.Asset) error {
	if !a.Type.Valid() {
		return fmt.Errorf("invalid asset type: %q", a.Type)
	}
	if a.DateAdded.IsZero() {
		a.DateAdded = time.Now().UTC()
	}
	var lastUsed any
	if a.LastUsed != nil {
		lastUsed = *a.LastUsed
	}

	res, err := db.Exec(`
		INSERT INTO assets (name, type, creator, description, file_path, file_size, version, favorite, notes, date_added, last_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Name, string(a.Type), a.Creator, a.Description, a.FilePath, a.FileSize, a.Version,
		boolToInt(a.Favorite), a.Notes, a.DateAdded, lastUsed)
	if err != nil {
		return fmt.Errorf("failed to insert asset %q: %w", a.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get asset id: %w", err)
	}
	a.ID = id

	for _, name := range a.CompatibleWith {
		if _, err := db.Exec("INSERT OR IGNORE INTO asset_compatibility (asset_id, avatar_name) VALUES (?, ?)", id, name); err != nil {
			return fmt.Errorf("insert asset compatibility: %w", err)
		}
	}
	for _, tag := range a.Tags {
		if _, err := db.Exec("INSERT OR IGNORE INTO asset_tags (asset_id, tag) VALUES (?, ?)", id, tag); err != nil {
			return fmt.Errorf("insert asset tag: %w", err)
		}
	}
	return nil
}

// SetFavorite 设置收藏状态
func (s *Store) SetFavorite(id int64, favorite bool) error {
	return s.updateAsset(id, "UPDATE assets SET favorite = ? WHERE id = ?", boolToInt(favorite), id)
}

// SetNotes 更新备注
func (s *Store) SetNotes(id int64, notes string) error {
	return s.updateAsset(id, "UPDATE assets SET notes = ? WHERE id = ?", notes, id)
}

// MarkUsed 记录最近使用时间
func (s *Store) MarkUsed(id int64, at time.Time) error {
	return s.updateAsset(id, "UPDATE assets SET last_used = ? WHERE id = ?", at.UTC(), id)
}

func (s *Store) updateAsset(id int64, query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update asset %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("asset %d: %w", id, ErrNotFound)
	}
	return nil
}

// RecentAssets 最近添加的资源
func (s *Store) RecentAssets(limit int) ([]model.Asset, error) {
	return s.ListAssets(AssetQueryOptions{SortBy: "dateAdded", SortDesc: true, Limit: limit})
}

// attachDetails 批量填充兼容列表与标签
func (s *Store) attachDetails(assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	index := make(map[int64]int, len(assets))
	placeholders := make([]string, 0, len(assets))
	args := make([]any, 0, len(assets))
	for i := range assets {
		index[assets[i].ID] = i
		assets[i].CompatibleWith = []string{}
		assets[i].Tags = []string{}
		placeholders = append(placeholders, "?")
		args = append(args, assets[i].ID)
	}
	in := strings.Join(placeholders, ",")

	load := func(query string, add func(a *model.Asset, v string)) error {
		rows, err := s.db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			var v string
			if err := rows.Scan(&id, &v); err != nil {
				return err
			}
			if i, ok := index[id]; ok {
				add(&assets[i], v)
			}
		}
		return rows.Err()
	}

	if err := load(
		"SELECT asset_id, avatar_name FROM asset_compatibility WHERE asset_id IN ("+in+") ORDER BY asset_id, avatar_name",
		func(a *model.Asset, v string) { a.CompatibleWith = append(a.CompatibleWith, v) },
	); err != nil {
		return fmt.Errorf("load asset compatibility failed: %w", err)
	}
	if err := load(
		"SELECT asset_id, tag FROM asset_tags WHERE asset_id IN ("+in+") ORDER BY asset_id, tag",
		func(a *model.Asset, v string) { a.Tags = append(a.Tags, v) },
	); err != nil {
		return fmt.Errorf("load asset tags failed: %w", err)
	}
	return nil
}

func scanAsset(row rowScanner) (model.Asset, error) {
	var a model.Asset
	var typ string
	var favorite int
	var lastUsed sql.NullTime
	if err := row.Scan(&a.ID, &a.Name, &typ, &a.Creator, &a.Description, &a.FilePath, &a.FileSize,
		&a.Version, &favorite, &a.Notes, &a.DateAdded, &lastUsed); err != nil {
		return model.Asset{}, err
	}
	a.Type = model.AssetType(typ)
	a.Favorite = favorite == 1
	if lastUsed.Valid {
		t := lastUsed.Time
		a.LastUsed = &t
	}
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
