// Package seed 生成可复现的模拟资源数据
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/catalog"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

// Options 生成参数
type Options struct {
	Seed          uint64
	AssetsPerType int
	// Now 日期计算的基准时间，零值时使用当前时间
	Now time.Time
}

var creators = []string{
	"Kiri", "Nyako", "Ren", "Mochi Works", "Astra Studio", "Pixel Fox", "Hoshi", "Velvet Lab", "Sora", "Tanuki Forge",
}

var adjectives = []string{
	"Neon", "Frost", "Shadow", "Sakura", "Cyber", "Velvet", "Aurora", "Ember", "Pastel", "Midnight", "Lunar", "Crystal",
}

// 各类型的名词与标签池
var typeNouns = map[model.AssetType][]string{
	model.AssetTypeAvatar:    {"Kitsune", "Wolf", "Dragon", "Protogen", "Bunny", "Knight", "Synth"},
	model.AssetTypeClothing:  {"Hoodie", "Jacket", "Kimono", "Skirt", "Boots", "Techwear Set", "Sweater"},
	model.AssetTypeProp:      {"Katana", "Lantern", "Guitar", "Umbrella", "Camera", "Staff", "Teacup"},
	model.AssetTypeTexture:   {"Fur Pack", "Skin Set", "Eye Texture", "Fabric Pack", "Matcap Set", "Decal Sheet"},
	model.AssetTypeAccessory: {"Choker", "Glasses", "Ear Piercings", "Halo", "Tail Bow", "Headphones", "Mask"},
}

var typeTags = map[model.AssetType][]string{
	model.AssetTypeAvatar:    {"quest", "pc-only", "physbones", "toon", "realistic", "furry"},
	model.AssetTypeClothing:  {"outfit", "casual", "formal", "fantasy", "streetwear"},
	model.AssetTypeProp:      {"handheld", "world", "animated", "weapon", "instrument"},
	model.AssetTypeTexture:   {"4k", "2k", "pbr", "stylized", "recolor"},
	model.AssetTypeAccessory: {"jewelry", "head", "neck", "cute", "gothic"},
}

// 各类型文件大小范围（字节）
var typeSizes = map[model.AssetType][2]int64{
	model.AssetTypeAvatar:    {40 << 20, 250 << 20},
	model.AssetTypeClothing:  {5 << 20, 60 << 20},
	model.AssetTypeProp:      {1 << 20, 30 << 20},
	model.AssetTypeTexture:   {2 << 20, 80 << 20},
	model.AssetTypeAccessory: {512 << 10, 15 << 20},
}

var collectionNames = []struct{ name, description string }{
	{"Favorites Outfit", "Go-to clothing and accessories"},
	{"Work In Progress", "Assets still being adjusted"},
	{"Quest Ready", "Assets checked for Quest builds"},
}

// Generator 基于 PCG 的确定性生成器；同一种子与参考数据总是得到相同结果
type Generator struct {
	r    *rand.Rand
	opts Options
}

// NewGenerator 创建生成器
func NewGenerator(opts Options) *Generator {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	return &Generator{r: rand.New(rand.NewPCG(opts.Seed, 0)), opts: opts}
}

// Dataset 生成完整数据集
func (g *Generator) Dataset(ref *catalog.Reference) *store.Dataset {
	names := ref.AvatarNames()
	ds := &store.Dataset{
		CatalogVersion: ref.Version,
		AvatarBases:    ref.AvatarBases,
		Compatibility:  ref.Compatibility,
		Assets:         make([]model.Asset, 0, max(g.opts.AssetsPerType, 0)*len(model.AllAssetTypes)),
	}
	for _, t := range model.AllAssetTypes {
		for i := 0; i < g.opts.AssetsPerType; i++ {
			ds.Assets = append(ds.Assets, g.asset(t, names))
		}
	}
	ds.Collections = g.collections(len(ds.Assets))
	return ds
}

func (g *Generator) asset(t model.AssetType, avatarNames []string) model.Asset {
	name := pick(g.r, adjectives) + " " + pick(g.r, typeNouns[t])
	creator := pick(g.r, creators)
	size := typeSizes[t]

	a := model.Asset{
		Name:           name,
		Type:           t,
		Creator:        creator,
		Description:    fmt.Sprintf("%s by %s", name, creator),
		FilePath:       fmt.Sprintf("Assets/%s/%s/%s.unitypackage", t, slug(creator), slug(name)),
		FileSize:       size[0] + g.r.Int64N(size[1]-size[0]),
		Version:        fmt.Sprintf("%d.%d.%d", 1+g.r.IntN(3), g.r.IntN(10), g.r.IntN(10)),
		Tags:           sample(g.r, typeTags[t], 1+g.r.IntN(3)),
		CompatibleWith: sample(g.r, avatarNames, g.r.IntN(len(avatarNames)+1)),
		Favorite:       g.r.IntN(5) == 0,
		DateAdded:      g.opts.Now.Add(-time.Duration(g.r.IntN(365*24)) * time.Hour).Truncate(time.Second),
	}
	// 约三分之二的资源有使用记录，且晚于添加时间
	if g.r.IntN(3) > 0 {
		since := g.opts.Now.Sub(a.DateAdded)
		used := a.DateAdded.Add(time.Duration(g.r.Int64N(int64(since) + 1))).Truncate(time.Second)
		a.LastUsed = &used
	}
	return a
}

func (g *Generator) collections(assetCount int) []store.CollectionSeed {
	if assetCount == 0 {
		return nil
	}
	out := make([]store.CollectionSeed, 0, len(collectionNames))
	for _, c := range collectionNames {
		n := min(assetCount, 3+g.r.IntN(6))
		out = append(out, store.CollectionSeed{
			Name:         c.name,
			Description:  c.description,
			AssetIndexes: g.r.Perm(assetCount)[:n],
		})
	}
	return out
}

// pick 随机取一个元素
func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// sample 不重复地取 n 个元素，保持原顺序
func sample(r *rand.Rand, items []string, n int) []string {
	n = min(n, len(items))
	idx := r.Perm(len(items))[:n]
	chosen := make([]bool, len(items))
	for _, i := range idx {
		chosen[i] = true
	}
	out := make([]string, 0, n)
	for i, v := range items {
		if chosen[i] {
			out = append(out, v)
		}
	}
	return out
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

// Run 生成数据并写入存储，生成记录写入 seed_runs
func Run(st *store.Store, ref *catalog.Reference, opts Options, logger *zap.Logger) (*store.Dataset, error) {
	if opts.AssetsPerType < 0 {
		return nil, fmt.Errorf("assets per type must not be negative: %d", opts.AssetsPerType)
	}
	runID, err := st.CreateSeedRun(opts.Seed, ref.Version)
	if err != nil {
		return nil, err
	}

	ds := NewGenerator(opts).Dataset(ref)
	if err := st.LoadDataset(ds); err != nil {
		if cerr := st.CompleteSeedRun(runID, 0, 0, "failed", err.Error()); cerr != nil {
			logger.Warn("record failed seed run", zap.Error(cerr))
		}
		return nil, fmt.Errorf("load seed dataset: %w", err)
	}
	if err := st.CompleteSeedRun(runID, len(ds.Assets), len(ds.Collections), "completed", ""); err != nil {
		return nil, err
	}

	logger.Info("seeded mock data",
		zap.Uint64("seed", opts.Seed),
		zap.String("catalog_version", ref.Version),
		zap.Int("assets", len(ds.Assets)),
		zap.Int("collections", len(ds.Collections)),
	)
	return ds, nil
}
