package model

import "fmt"

// Status 兼容性状态，按从差到好排序：no < partial < mostly < yes
//
// 零值不是合法状态，解析失败或未初始化时可以据此识别。
type Status uint8

const (
	StatusNo Status = iota + 1
	StatusPartial
	StatusMostly
	StatusYes
)

var statusNames = map[Status]string{
	StatusNo:      "no",
	StatusPartial: "partial",
	StatusMostly:  "mostly",
	StatusYes:     "yes",
}

// ParseStatus 解析 yes/mostly/partial/no
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown compatibility status: %q", s)
}

// Valid 是否为合法状态
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Mark 转换为展示标记
func (s Status) Mark() Mark {
	return Mark(s.String())
}

// MarshalText 序列化为字符串（JSON/YAML 均使用）
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid compatibility status: %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText 从字符串解析
func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Worst 返回最差的状态；空输入返回 StatusYes
func Worst(statuses ...Status) Status {
	worst := StatusYes
	for _, s := range statuses {
		if s < worst {
			worst = s
		}
	}
	return worst
}

// Mark 展示层使用的状态标记
//
// 除四个可比较的 Status 外，还包含 info 与 unknown 两个仅用于展示的标记，它们不参与聚合。
type Mark string

const (
	MarkYes     Mark = "yes"
	MarkMostly  Mark = "mostly"
	MarkPartial Mark = "partial"
	MarkNo      Mark = "no"
	MarkInfo    Mark = "info"
	MarkUnknown Mark = "unknown"
)
