package graph

import "fmt"

// NodeID, SocketID and LinkID are arena handles. The zero value is never a valid handle.
type (
	NodeID   int
	SocketID int
	LinkID   int
)

// Direction tells inputs from outputs.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Capability is a behaviour a socket kind implements.
type Capability uint8

const (
	// CapText sockets produce template text.
	CapText Capability = 1 << iota
	// CapParams sockets contribute substitution parameters to their siblings.
	CapParams
	// CapObjects sockets enumerate scene objects.
	CapObjects
	// CapExport sockets delegate exports.
	CapExport
	// CapReady sockets report readiness of what they reference.
	CapReady
)

// SocketKind is the type tag of a socket.
type SocketKind int

const (
	KindTemplateString SocketKind = iota + 1
	KindMwmFile
	KindLodInput
	KindHktFile
	KindObjectList
	KindRigidBodyObjects
	KindMountPointObjects
)

var kindNames = map[SocketKind]string{
	KindTemplateString:    "TemplateString",
	KindMwmFile:           "MwmFile",
	KindLodInput:          "LodInput",
	KindHktFile:           "HktFile",
	KindObjectList:        "ObjectList",
	KindRigidBodyObjects:  "RigidBodyObjects",
	KindMountPointObjects: "MountPointObjects",
}

func (k SocketKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SocketKind(%d)", int(k))
}

// Caps returns the capability set of the kind.
func (k SocketKind) Caps() Capability {
	switch k {
	case KindTemplateString:
		return CapText
	case KindMwmFile, KindLodInput, KindHktFile:
		return CapText | CapExport | CapReady
	case KindObjectList, KindRigidBodyObjects, KindMountPointObjects:
		return CapObjects | CapParams | CapReady
	}
	return 0
}

// Has reports whether the kind implements every capability of c.
func (k SocketKind) Has(c Capability) bool {
	return k.Caps()&c == c
}

// Accepts reports whether a socket of kind k can take its value from a source of kind src.
func (k SocketKind) Accepts(src SocketKind) bool {
	switch k {
	case KindTemplateString:
		return src.Has(CapText)
	case KindLodInput:
		return src == KindMwmFile
	case KindMwmFile, KindHktFile:
		return src == k
	case KindObjectList, KindRigidBodyObjects, KindMountPointObjects:
		return src.Has(CapObjects)
	}
	return false
}

// DefaultLodDistance is the distance of a fresh LodInput socket.
const DefaultLodDistance = 10

// Socket is a typed pin on a node.
type Socket struct {
	ID        SocketID
	Node      NodeID
	Kind      SocketKind
	Direction Direction
	// Name identifies the socket on its node. Repeated names are told apart by position.
	Name string
	// Label is the display name. Empty means Name.
	Label   string
	Enabled bool

	// Text is the literal value, the last text fallback.
	Text string
	// NodeInput names a sibling input used as text source.
	NodeInput string
	// NodeProperty names a node property used as text source.
	NodeProperty string
	// ShowEditorIfUnlinked tells a host UI to edit Text while the input is unlinked.
	ShowEditorIfUnlinked bool

	// N is the ordinal an object socket contributes as parameter "n". -1 when unset.
	N int
	// Layer is the 0-based layer an object output enumerates.
	Layer int
	// Distance is the LOD switch distance.
	Distance int

	link  LinkID   // incoming link of an input
	links []LinkID // outgoing links of an output
}

func newSocket(kind SocketKind, dir Direction, name string) *Socket {
	return &Socket{
		Kind:                 kind,
		Direction:            dir,
		Name:                 name,
		Enabled:              true,
		ShowEditorIfUnlinked: kind == KindTemplateString,
		N:                    -1,
		Distance:             DefaultLodDistance,
	}
}

// IsOutput reports whether the socket is an output.
func (s *Socket) IsOutput() bool {
	return s.Direction == Out
}

// DisplayName is the label, falling back to the name.
func (s *Socket) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// Link is a directed edge from an output socket to an input socket.
type Link struct {
	ID   LinkID
	From SocketID
	To   SocketID
}

// Sockets collects the sockets a node declares in Init.
type Sockets struct {
	inputs  []*Socket
	outputs []*Socket
}

// Input declares an input socket and returns it for further configuration.
func (b *Sockets) Input(kind SocketKind, name string) *Socket {
	s := newSocket(kind, In, name)
	b.inputs = append(b.inputs, s)
	return s
}

// Output declares an output socket and returns it for further configuration.
func (b *Sockets) Output(kind SocketKind, name string) *Socket {
	s := newSocket(kind, Out, name)
	b.outputs = append(b.outputs, s)
	return s
}
