package fields

// Kind is the closed set of metadata input controls.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindTextarea
	KindSelect
	KindLink
)

var kindNames = map[string]Kind{
	"text":     KindText,
	"textarea": KindTextarea,
	"select":   KindSelect,
	"link":     KindLink,
}

// ParseKind maps a schema "type" to its control kind.
func ParseKind(s string) Kind {
	return kindNames[s]
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
