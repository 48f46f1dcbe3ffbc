package deadman

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/gconf"
)

const (
	day = heirloom.UnixDuration(24 * 60 * 60)

	packageName = "deadman"
)

// Configuration holds the policy bounds of heartbeat intervals and challenge
// periods.
type Configuration struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is allowed to update the configuration.
	Owner                heirloom.Address      `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	MinHeartbeatInterval heirloom.UnixDuration `protobuf:"varint,3,opt,name=min_heartbeat_interval,json=minHeartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"min_heartbeat_interval,omitempty"`
	MaxHeartbeatInterval heirloom.UnixDuration `protobuf:"varint,4,opt,name=max_heartbeat_interval,json=maxHeartbeatInterval,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"max_heartbeat_interval,omitempty"`
	MinChallengePeriod   heirloom.UnixDuration `protobuf:"varint,5,opt,name=min_challenge_period,json=minChallengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"min_challenge_period,omitempty"`
	MaxChallengePeriod   heirloom.UnixDuration `protobuf:"varint,6,opt,name=max_challenge_period,json=maxChallengePeriod,proto3,casttype=github.com/iov-one/heirloom.UnixDuration" json:"max_challenge_period,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata:             &heirloom.Metadata{Schema: 1},
		MinHeartbeatInterval: day,
		MaxHeartbeatInterval: 365 * day,
		MinChallengePeriod:   day,
		MaxChallengePeriod:   90 * day,
	}
}

func (c *Configuration) GetOwner() heirloom.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	// owner field is optional
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
	}
	if c.MinHeartbeatInterval <= 0 || c.MaxHeartbeatInterval < c.MinHeartbeatInterval {
		return errors.Wrapf(errors.ErrState, "heartbeat interval bounds [%s, %s]",
			c.MinHeartbeatInterval, c.MaxHeartbeatInterval)
	}
	if c.MinChallengePeriod <= 0 || c.MaxChallengePeriod < c.MinChallengePeriod {
		return errors.Wrapf(errors.ErrState, "challenge period bounds [%s, %s]",
			c.MinChallengePeriod, c.MaxChallengePeriod)
	}
	return nil
}

// checkInterval returns ErrInvalidInterval if given value is out of the
// configured bounds.
func (c *Configuration) checkInterval(d heirloom.UnixDuration) error {
	if d < c.MinHeartbeatInterval || d > c.MaxHeartbeatInterval {
		return errors.Wrapf(ErrInvalidInterval, "%s not in [%s, %s]",
			d, c.MinHeartbeatInterval, c.MaxHeartbeatInterval)
	}
	return nil
}

// checkPeriod returns ErrInvalidPeriod if given value is out of the
// configured bounds.
func (c *Configuration) checkPeriod(d heirloom.UnixDuration) error {
	if d < c.MinChallengePeriod || d > c.MaxChallengePeriod {
		return errors.Wrapf(ErrInvalidPeriod, "%s not in [%s, %s]",
			d, c.MinChallengePeriod, c.MaxChallengePeriod)
	}
	return nil
}

// loadConf returns the stored configuration or the default one if none was
// stored.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		conf = DefaultConfiguration()
		return &conf, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}

// UpdateConfigurationMsg patches the configuration. Zero fields are left
// unchanged.
type UpdateConfigurationMsg struct {
	Metadata *heirloom.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration     `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

var _ heirloom.Msg = (*UpdateConfigurationMsg)(nil)

func (*UpdateConfigurationMsg) Path() string {
	return "deadman/update_configuration"
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
