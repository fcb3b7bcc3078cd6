package api

// Tag is the wire discriminator the remote service dispatches on
type Tag string

const (
	TagGetWindow        Tag = "RAY_MESSAGE_TAG_GET_REGION_KMER_AT_LOCATION"
	TagGetElementDetail Tag = "RAY_MESSAGE_TAG_GET_KMER_FROM_STORE"
	TagDescribeRegion   Tag = "RAY_MESSAGE_TAG_GET_REGIONS"
)

// Request is one of GetWindow, GetElementDetail or DescribeRegion
type Request interface {
	Tag() Tag
	isRequest()
}

// GetWindow asks for Count elements around Location in a region
type GetWindow struct {
	Key      RegionKey
	Location int
	Count    int
}

// GetElementDetail asks for the vertex object of one element and its
// neighborhood up to Count vertices
type GetElementDetail struct {
	Map      int
	Sequence string
	Count    int
}

// DescribeRegion asks for the name and raw length of Count regions starting
// at Start within a section
type DescribeRegion struct {
	Map     int
	Section int
	Start   int
	Count   int
}

func (GetWindow) Tag() Tag        { return TagGetWindow }
func (GetElementDetail) Tag() Tag { return TagGetElementDetail }
func (DescribeRegion) Tag() Tag   { return TagDescribeRegion }

func (GetWindow) isRequest()        {}
func (GetElementDetail) isRequest() {}
func (DescribeRegion) isRequest()   {}

// Reply is any message coming back from the remote service
type Reply interface {
	isReply()
}

// PathReply is the closed set of replies the navigator consumes:
// *WindowReply and *DescribeReply.
type PathReply interface {
	Reply
	isPathReply()
}

// PositionedElement is one (sequence, position) pair of a window
type PositionedElement struct {
	Sequence string `json:"sequence"`
	Position int    `json:"position"`
}

// WindowReply carries a contiguous batch of elements of one region
type WindowReply struct {
	Key      RegionKey
	Location int
	Vertices []PositionedElement
}

// RegionDescription is the name and raw nucleotide length of a region
type RegionDescription struct {
	Name        string `json:"name"`
	Nucleotides int    `json:"nucleotides"`
}

// DescribeReply lists regions Start, Start+1, ... of a section
type DescribeReply struct {
	Map     int
	Section int
	Start   int
	Regions []RegionDescription
}

// VertexDetail is the full vertex object of one element
type VertexDetail struct {
	Sequence string   `json:"value"`
	Coverage int      `json:"coverage"`
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
}

// ParentKeys expands parent symbols into full keys: symbol + key[:k-1]
func (v VertexDetail) ParentKeys() []string {
	if len(v.Sequence) == 0 {
		return nil
	}
	base := v.Sequence[:len(v.Sequence)-1]
	keys := make([]string, 0, len(v.Parents))
	for _, symbol := range v.Parents {
		keys = append(keys, symbol+base)
	}
	return keys
}

// ChildKeys expands child symbols into full keys: key[1:] + symbol
func (v VertexDetail) ChildKeys() []string {
	if len(v.Sequence) == 0 {
		return nil
	}
	base := v.Sequence[1:]
	keys := make([]string, 0, len(v.Children))
	for _, symbol := range v.Children {
		keys = append(keys, base+symbol)
	}
	return keys
}

// DetailReply answers GetElementDetail. Vertices[0] is the requested element
// when the store knows it.
type DetailReply struct {
	Map      int
	Sequence string
	Vertices []VertexDetail
}

func (*WindowReply) isReply()   {}
func (*DescribeReply) isReply() {}
func (*DetailReply) isReply()   {}

func (*WindowReply) isPathReply()   {}
func (*DescribeReply) isPathReply() {}
