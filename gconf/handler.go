package gconf

import (
	"reflect"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/x"
)

// OwnedConfig is a configuration that names the address allowed to change
// it.
type OwnedConfig interface {
	Configuration
	GetOwner() heirloom.Address
}

// PatchMsg is a message carrying a partial configuration. Every non zero
// field of the patch replaces the stored value.
type PatchMsg interface {
	heirloom.Msg
	ConfigPatch() OwnedConfig
}

// InitAdminFunc returns the address allowed to create a configuration that
// was not set in the genesis.
type InitAdminFunc func(heirloom.ReadOnlyKVStore) (heirloom.Address, error)

// UpdateConfigurationHandler applies PatchMsg messages to the configuration
// of a single package.
type UpdateConfigurationHandler struct {
	pkg       string
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin InitAdminFunc
}

var _ heirloom.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler for configuration updates
// of pkg. The config instance is used as the decoding destination and is
// reset on every call.
//
// An existing configuration can be changed only by its owner. A missing
// configuration can be created only by the address returned by initAdmin. A
// nil initAdmin forbids creation.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator, initAdmin InitAdminFunc) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    config,
		auth:      auth,
		initAdmin: initAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &heirloom.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	heirloom.GetLogger(ctx).Debug("configuration updated", "package", h.pkg)
	ev := heirloom.NewEvent("configuration_updated").With("package", h.pkg)
	return &heirloom.DeliverResult{Events: []heirloom.Event{ev}}, nil
}

func (h UpdateConfigurationHandler) update(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) error {
	if err := h.authorize(ctx, db); err != nil {
		return err
	}
	patch, err := loadPatch(tx)
	if err != nil {
		return err
	}
	if err := apply(h.config, patch); err != nil {
		return err
	}
	if err := Save(db, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "save configuration")
	}
	return nil
}

// authorize loads the current configuration into h.config and ensures the
// caller may change it.
func (h UpdateConfigurationHandler) authorize(ctx heirloom.Context, db heirloom.KVStore) error {
	h.config.Reset()
	err := Load(db, h.pkg, h.config)
	switch {
	case err == nil:
		owner := h.config.GetOwner()
		if owner.IsZero() || !h.auth.HasAddress(ctx, owner) {
			return errors.Wrapf(errors.ErrUnauthorized, "%s configuration owner signature required", h.pkg)
		}
		return nil
	case errors.ErrNotFound.Is(err):
		if h.initAdmin == nil {
			return errors.Wrapf(errors.ErrUnauthorized, "%s configuration cannot be created", h.pkg)
		}
		admin, err := h.initAdmin(db)
		if err != nil {
			return errors.Wrap(err, "init admin")
		}
		if !h.auth.HasAddress(ctx, admin) {
			return errors.Wrapf(errors.ErrUnauthorized, "%s configuration admin signature required", h.pkg)
		}
		return nil
	default:
		return errors.Wrap(err, "load configuration")
	}
}

func loadPatch(tx heirloom.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "transaction message")
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unexpected message %T", msg)
	}
	if err := pm.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	patch := pm.ConfigPatch()
	if patch == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "patch")
	}
	return patch, nil
}

// apply copies every non zero field of patch into config. Both must be
// pointers to the same struct type.
func apply(config, patch OwnedConfig) error {
	dst := reflect.ValueOf(config)
	src := reflect.ValueOf(patch)
	if dst.Type() != src.Type() || dst.Kind() != reflect.Ptr || dst.Elem().Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrType, "cannot patch %T with %T", config, patch)
	}
	dst, src = dst.Elem(), src.Elem()
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		dst.Field(i).Set(f)
	}
	return nil
}
