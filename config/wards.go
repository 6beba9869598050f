package config

import "strings"

// Ward represents one Tokyo special ward
type Ward struct {
	Name   string    `json:"name"`
	NameJa string    `json:"name_ja"`
	Center []float64 `json:"center"`
}

// SupportedWards lists the 23 special wards used as market segments
var SupportedWards = []Ward{
	{Name: "Chiyoda", NameJa: "千代田区", Center: []float64{35.6940, 139.7536}},
	{Name: "Chuo", NameJa: "中央区", Center: []float64{35.6707, 139.7720}},
	{Name: "Minato", NameJa: "港区", Center: []float64{35.6581, 139.7514}},
	{Name: "Shinjuku", NameJa: "新宿区", Center: []float64{35.6938, 139.7034}},
	{Name: "Bunkyo", NameJa: "文京区", Center: []float64{35.7081, 139.7524}},
	{Name: "Taito", NameJa: "台東区", Center: []float64{35.7128, 139.7800}},
	{Name: "Sumida", NameJa: "墨田区", Center: []float64{35.7107, 139.8015}},
	{Name: "Koto", NameJa: "江東区", Center: []float64{35.6730, 139.8171}},
	{Name: "Shinagawa", NameJa: "品川区", Center: []float64{35.6092, 139.7302}},
	{Name: "Meguro", NameJa: "目黒区", Center: []float64{35.6415, 139.6983}},
	{Name: "Ota", NameJa: "大田区", Center: []float64{35.5614, 139.7161}},
	{Name: "Setagaya", NameJa: "世田谷区", Center: []float64{35.6464, 139.6530}},
	{Name: "Shibuya", NameJa: "渋谷区", Center: []float64{35.6640, 139.6982}},
	{Name: "Nakano", NameJa: "中野区", Center: []float64{35.7074, 139.6638}},
	{Name: "Suginami", NameJa: "杉並区", Center: []float64{35.6994, 139.6364}},
	{Name: "Toshima", NameJa: "豊島区", Center: []float64{35.7261, 139.7166}},
	{Name: "Kita", NameJa: "北区", Center: []float64{35.7528, 139.7335}},
	{Name: "Arakawa", NameJa: "荒川区", Center: []float64{35.7362, 139.7834}},
	{Name: "Itabashi", NameJa: "板橋区", Center: []float64{35.7512, 139.7094}},
	{Name: "Nerima", NameJa: "練馬区", Center: []float64{35.7357, 139.6516}},
	{Name: "Adachi", NameJa: "足立区", Center: []float64{35.7750, 139.8044}},
	{Name: "Katsushika", NameJa: "葛飾区", Center: []float64{35.7434, 139.8472}},
	{Name: "Edogawa", NameJa: "江戸川区", Center: []float64{35.7066, 139.8683}},
}

// UnknownSegment is the market segment assigned when no ward can be resolved
const UnknownSegment = "Unknown"

// GetWardNames returns a list of supported ward names
func GetWardNames() []string {
	names := make([]string, len(SupportedWards))
	for i, ward := range SupportedWards {
		names[i] = ward.Name
	}
	return names
}

// GetWardByName returns a ward configuration by name
func GetWardByName(name string) *Ward {
	normalized := NormalizeWard(name)
	for _, ward := range SupportedWards {
		if ward.Name == normalized || ward.NameJa == name {
			return &ward
		}
	}
	return nil
}

// NormalizeWard maps free-form ward spellings ("shibuya-ku", "SHIBUYA",
// "渋谷区") to the canonical registry name. Unrecognized input is returned
// title-cased so unseen segments still group consistently.
func NormalizeWard(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return UnknownSegment
	}

	for _, ward := range SupportedWards {
		if ward.NameJa == trimmed {
			return ward.Name
		}
	}

	lower := strings.ToLower(trimmed)
	lower = strings.TrimSuffix(lower, " ward")
	lower = strings.TrimSuffix(lower, "-ku")
	lower = strings.TrimSuffix(lower, " ku")
	for _, ward := range SupportedWards {
		if strings.ToLower(ward.Name) == lower {
			return ward.Name
		}
	}

	if len(lower) == 0 {
		return UnknownSegment
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}
