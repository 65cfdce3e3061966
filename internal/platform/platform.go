package platform

import "errors"

// Platform identifies a social network a post can be published to.
type Platform string

const (
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

type Info struct {
	DisplayName      string
	MaxContentLength int
}

// registry holds per-platform limits. Adding a platform is a data change.
var registry = map[Platform]Info{
	Twitter:  {DisplayName: "Twitter / X", MaxContentLength: 280},
	LinkedIn: {DisplayName: "LinkedIn", MaxContentLength: 3000},
}

func Lookup(p Platform) (Info, error) {
	info, ok := registry[p]
	if !ok {
		return Info{}, ErrUnsupportedPlatform
	}
	return info, nil
}

func MaxContentLength(p Platform) (int, error) {
	info, err := Lookup(p)
	if err != nil {
		return 0, err
	}
	return info.MaxContentLength, nil
}

func IsSupported(p Platform) bool {
	_, ok := registry[p]
	return ok
}

// Register adds or replaces a platform entry.
func Register(p Platform, info Info) {
	registry[p] = info
}

func All() []Platform {
	platforms := make([]Platform, 0, len(registry))
	for p := range registry {
		platforms = append(platforms, p)
	}
	return platforms
}
