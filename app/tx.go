package app

import (
	"fmt"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x/sigs"
	"github.com/iov-one/heirloom/x/wallet"
)

// Tx is the transaction envelope accepted by the application. The message
// is carried serialized together with its path, so that it can be decoded
// into the type registered for that path.
type Tx struct {
	// MsgPath is the path of the carried message.
	MsgPath string `protobuf:"bytes,1,opt,name=msg_path,json=msgPath,proto3" json:"msg_path,omitempty"`
	// Msg is the protobuf serialized message.
	Msg []byte `protobuf:"bytes,2,opt,name=msg,proto3" json:"msg,omitempty"`
	// WalletID is set when the message is sent on behalf of a wallet.
	WalletID []byte `protobuf:"bytes,3,opt,name=wallet_id,json=walletId,proto3" json:"wallet_id,omitempty"`
	// Signatures are used to authenticate the signers.
	Signatures []*sigs.StdSignature `protobuf:"bytes,4,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

var _ sigs.SignedTx = (*Tx)(nil)
var _ wallet.WalletTx = (*Tx)(nil)

// NewTx serializes given message into a new transaction envelope.
func NewTx(msg heirloom.Msg, walletID []byte) (*Tx, error) {
	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{
		MsgPath:  msg.Path(),
		Msg:      raw,
		WalletID: walletID,
	}, nil
}

// GetSignBytes returns the serialized transaction without signatures.
func (m *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *m
	unsigned.Signatures = nil
	raw, err := proto.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(err, "marshal unsigned tx")
	}
	return raw, nil
}

func (m *Tx) GetSignatures() []*sigs.StdSignature {
	return m.Signatures
}

func (m *Tx) GetWalletID() []byte {
	return m.WalletID
}

// Codec maps message paths to message types and turns raw bytes into
// transactions that can be processed by the handler stack.
type Codec struct {
	msgs map[string]reflect.Type
}

// NewCodec returns a codec with no registered messages.
func NewCodec() *Codec {
	return &Codec{msgs: make(map[string]reflect.Type)}
}

// Register makes the type of given message available for decoding. It
// panics if another type is already registered for the same path.
func (c *Codec) Register(msgs ...heirloom.Msg) {
	for _, msg := range msgs {
		path := msg.Path()
		if _, ok := c.msgs[path]; ok {
			panic(fmt.Sprintf("message path %q already registered", path))
		}
		t := reflect.TypeOf(msg)
		if t.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("message %T must be a pointer", msg))
		}
		c.msgs[path] = t.Elem()
	}
}

// Decode parses raw transaction bytes. The message is decoded as well so
// that a malformed transaction is rejected before reaching any handler.
func (c *Codec) Decode(raw []byte) (heirloom.Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	msg, err := c.decodeMsg(tx.MsgPath, tx.Msg)
	if err != nil {
		return nil, err
	}
	return &decodedTx{Tx: &tx, msg: msg}, nil
}

// Encode serializes the transaction envelope.
func (c *Codec) Encode(tx *Tx) ([]byte, error) {
	if _, ok := c.msgs[tx.MsgPath]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown path %q", tx.MsgPath)
	}
	return proto.Marshal(tx)
}

func (c *Codec) decodeMsg(path string, raw []byte) (heirloom.Msg, error) {
	t, ok := c.msgs[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown path %q", path)
	}
	msg := reflect.New(t).Interface().(heirloom.Msg)
	if err := proto.Unmarshal(raw, msg); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %q: %s", path, err)
	}
	return msg, nil
}

// TxDecoder returns the decoding function used by the application.
func (c *Codec) TxDecoder() heirloom.TxDecoder {
	return c.Decode
}

// decodedTx is a transaction envelope with its message already decoded.
type decodedTx struct {
	*Tx
	msg heirloom.Msg
}

var _ heirloom.Tx = (*decodedTx)(nil)

func (tx *decodedTx) GetMsg() (heirloom.Msg, error) {
	return tx.msg, nil
}
