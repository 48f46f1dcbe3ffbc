package heirloomtest

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
)

// Tx represents a single message that is to be processed within a
// transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg heirloom.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ heirloom.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (heirloom.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message with a configurable path. Err has no wire
// representation, so a Msg can be marshaled but not unmarshaled.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string `protobuf:"bytes,1,opt,name=route_path,proto3" json:"route_path,omitempty"`
	// Serialized represents arbitrary payload carried by this message.
	Serialized []byte `protobuf:"bytes,2,opt,name=serialized,proto3" json:"serialized,omitempty"`
	// Err if set is returned by the Validate method.
	Err error `json:"-"`
}

var _ heirloom.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return proto.CompactTextString(m) }
func (*Msg) ProtoMessage()    {}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
