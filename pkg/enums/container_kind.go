package enums

// ContainerKind distinguishes the two uses of the shared line-item container.
type ContainerKind string

const (
	ContainerKindCart     ContainerKind = "cart"
	ContainerKindWishlist ContainerKind = "wishlist"
)

var validContainerKinds = []ContainerKind{
	ContainerKindCart,
	ContainerKindWishlist,
}

// String implements fmt.Stringer.
func (c ContainerKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContainerKind.
func (c ContainerKind) IsValid() bool {
	for _, candidate := range validContainerKinds {
		if candidate == c {
			return true
		}
	}
	return false
}
