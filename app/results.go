package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
)

// ResultSet contains a list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []heirloom.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []heirloom.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]heirloom.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrState, "mismatched result set size")
	}
	mods := make([]heirloom.Model, len(kref))
	for i := range mods {
		mods[i] = heirloom.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a result set, and
// it if is not empty, unmarshal the first result into dst.
// ErrNotFound is returned when the result set is empty.
func UnmarshalOneResult(raw []byte, dst proto.Message) error {
	var res ResultSet
	if err := proto.Unmarshal(raw, &res); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	if err := proto.Unmarshal(res.Results[0], dst); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

func marshalResults(rs *ResultSet) ([]byte, error) {
	raw, err := proto.Marshal(rs)
	if err != nil {
		return nil, errors.Wrap(err, "marshal result set")
	}
	return raw, nil
}
