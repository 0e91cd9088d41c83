package objects

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// GameObject is the highest level interface for drawable types.
type GameObject interface {
	Init() error
	Destroy() error
	Update() error
	Draw(screen *ebiten.Image)

	GetID() string
	GetZIndex() int
	GetChildren() []GameObject
}

// BaseObject keeps its children sorted by z-index so they draw back to
// front. Embed it and override Update and Draw as needed.
type BaseObject struct {
	id       string
	zIndex   int
	children []GameObject
}

var _ GameObject = &BaseObject{}

type NewBaseObjectOpts struct {
	// ZIndex is the z-index of the object.
	ZIndex int
}

func NewBaseObject(id string, opts *NewBaseObjectOpts) *BaseObject {
	o := &BaseObject{
		id: id,
	}
	if opts != nil {
		o.zIndex = opts.ZIndex
	}
	return o
}

func (o *BaseObject) Init() error               { return nil }
func (o *BaseObject) Destroy() error            { return nil }
func (o *BaseObject) Update() error             { return nil }
func (o *BaseObject) Draw(screen *ebiten.Image) {}

func (o *BaseObject) GetID() string {
	return o.id
}

func (o *BaseObject) GetZIndex() int {
	return o.zIndex
}

func (o *BaseObject) GetChildren() []GameObject {
	return o.children
}

// AddChild adds child to the object. The child is not initialized.
func (o *BaseObject) AddChild(child GameObject) error {
	for _, c := range o.children {
		if c.GetID() == child.GetID() {
			return fmt.Errorf("child object with id %s already exists", child.GetID())
		}
	}
	o.children = append(o.children, child)
	sort.SliceStable(o.children, func(i, j int) bool {
		return o.children[i].GetZIndex() < o.children[j].GetZIndex()
	})
	return nil
}

// InitTree initializes obj and then its children.
func InitTree(obj GameObject) error {
	if err := obj.Init(); err != nil {
		return fmt.Errorf("failed to initialize object %s: %v", obj.GetID(), err)
	}
	for _, child := range obj.GetChildren() {
		if err := InitTree(child); err != nil {
			return err
		}
	}
	return nil
}

// DestroyTree destroys the children of obj and then obj.
func DestroyTree(obj GameObject) error {
	for _, child := range obj.GetChildren() {
		if err := DestroyTree(child); err != nil {
			return err
		}
	}
	if err := obj.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy object %s: %v", obj.GetID(), err)
	}
	return nil
}

func UpdateTree(obj GameObject) error {
	if err := obj.Update(); err != nil {
		return fmt.Errorf("failed to update object %s: %v", obj.GetID(), err)
	}
	for _, child := range obj.GetChildren() {
		if err := UpdateTree(child); err != nil {
			return err
		}
	}
	return nil
}

func DrawTree(obj GameObject, screen *ebiten.Image) {
	obj.Draw(screen)
	for _, child := range obj.GetChildren() {
		DrawTree(child, screen)
	}
}
