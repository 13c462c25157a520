package keystore

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
)

// DualStore keeps names in a MetadataStore and sealed secrets in a SecretStore.
//
// The two backends cannot share a transaction, so every mutation that fails
// half way is undone by a compensating action on the backend that already
// changed. When the compensation itself fails the error is tagged ErrInconsistent.
type DualStore struct {
	names   MetadataStore
	secrets SecretStore
	vault   *Vault
	logger  *slog.Logger
}

// NewDualStore combines a metadata store, a secret backend and the vault that seals secrets.
func NewDualStore(names MetadataStore, secrets SecretStore, vault *Vault, opts ...Option) *DualStore {
	o := newOptions(opts)
	return &DualStore{
		names:   names,
		secrets: secrets,
		vault:   vault,
		logger:  o.logger,
	}
}

// OpenDualStore opens names.db below dir and pairs it with secrets.
func OpenDualStore(dir, password string, secrets SecretStore, opts ...Option) (*DualStore, error) {
	names, err := OpenNameStore(filepath.Join(dir, "names.db"), password, opts...)
	if err != nil {
		return nil, err
	}
	return NewDualStore(names, secrets, names.Vault(), opts...), nil
}

// Create writes the metadata row first, then the secret. If the secret write
// fails the metadata row is removed again.
func (d *DualStore) Create(r Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}
	entry := Entry{Name: r.Name, Scheme: r.Scheme}
	if err := d.names.Insert(entry); err != nil {
		return err
	}
	if err := d.putSecret(r); err != nil {
		if rbErr := d.names.Remove(r.Name); rbErr != nil {
			d.logger.Error("failed to roll back key metadata",
				slog.String("name", r.Name), slog.Any("error", err), slog.Any("rollback_error", rbErr))
			return inconsistent(err, rbErr)
		}
		d.logger.Warn("rolled back key metadata after secret write failed",
			slog.String("name", r.Name), slog.Any("error", err))
		return fmt.Errorf("failed to store secret for %q: %w", r.Name, err)
	}
	return nil
}

// Replace stores r under its name. Each step is undone if a later one fails,
// leaving the previous record (or no record) in place.
func (d *DualStore) Replace(r Record) error {
	if err := validateRecord(r); err != nil {
		return err
	}
	previous, err := d.names.Lookup(r.Name)
	existed := err == nil
	if err != nil && !errors.Is(err, ErrNameNotFound) {
		return err
	}

	newRef := SecretRef(r.Scheme, r.Name)
	if err := d.names.Upsert(Entry{Name: r.Name, Scheme: r.Scheme}); err != nil {
		return err
	}
	if err := d.putSecret(r); err != nil {
		if rbErr := d.restoreEntry(previous, existed, r.Name); rbErr != nil {
			return inconsistent(err, rbErr)
		}
		d.logger.Warn("restored key metadata after secret write failed",
			slog.String("name", r.Name), slog.Any("error", err))
		return fmt.Errorf("failed to store secret for %q: %w", r.Name, err)
	}

	if !existed {
		return nil
	}
	oldRef := SecretRef(previous.Scheme, previous.Name)
	if oldRef == newRef {
		return nil
	}
	if err := d.secrets.Remove(oldRef); err != nil && !errors.Is(err, ErrSecretNotFound) {
		// The old secret is still in place, so putting the old metadata back restores the previous key.
		rbErr := errors.Join(d.removeSecret(newRef), d.names.Upsert(previous))
		if rbErr != nil {
			return inconsistent(err, rbErr)
		}
		d.logger.Warn("restored previous key after old secret could not be removed",
			slog.String("name", r.Name), slog.Any("error", err))
		return fmt.Errorf("failed to remove previous secret for %q: %w", r.Name, err)
	}
	return nil
}

// Get returns the record for name. Metadata without a secret is reported as ErrInconsistent.
func (d *DualStore) Get(name string) (Record, error) {
	entry, err := d.names.Lookup(name)
	if err != nil {
		return Record{}, err
	}
	sealed, err := d.secrets.Get(SecretRef(entry.Scheme, entry.Name))
	if errors.Is(err, ErrSecretNotFound) {
		return Record{}, fmt.Errorf("%w: key %q has no secret", ErrInconsistent, name)
	}
	if err != nil {
		return Record{}, err
	}
	secret, err := d.vault.Open(sealed, secretAAD(entry.Name, entry.Scheme))
	if err != nil {
		return Record{}, fmt.Errorf("key %q: %w", name, err)
	}
	return Record{Name: entry.Name, Scheme: entry.Scheme, Secret: secret}, nil
}

// Delete removes the metadata row, then the secret. If the secret cannot be
// removed, including when it is already gone, the metadata row is inserted
// again and the error is returned.
func (d *DualStore) Delete(name string) error {
	entry, err := d.names.Lookup(name)
	if err != nil {
		return err
	}
	if err := d.names.Remove(name); err != nil {
		return err
	}
	err = d.secrets.Remove(SecretRef(entry.Scheme, entry.Name))
	if err == nil {
		return nil
	}
	if rbErr := d.names.Insert(entry); rbErr != nil {
		d.logger.Error("failed to restore key metadata",
			slog.String("name", name), slog.Any("error", err), slog.Any("rollback_error", rbErr))
		return inconsistent(err, rbErr)
	}
	d.logger.Warn("restored key metadata after secret removal failed",
		slog.String("name", name), slog.Any("error", err))
	return fmt.Errorf("failed to remove secret for %q: %w", name, err)
}

func (d *DualStore) List() ([]Entry, error) {
	return d.names.List()
}

func (d *DualStore) Close() error {
	return d.names.Close()
}

// AuditReport lists the violations of the one secret per name relation.
type AuditReport struct {
	// MissingSecrets are names whose secret is absent.
	MissingSecrets []string
	// OrphanSecrets are secret references with no matching name.
	OrphanSecrets []string
}

// Consistent reports whether the audit found nothing.
func (a AuditReport) Consistent() bool {
	return len(a.MissingSecrets) == 0 && len(a.OrphanSecrets) == 0
}

// Audit compares both backends without modifying either.
func (d *DualStore) Audit() (AuditReport, error) {
	entries, err := d.names.List()
	if err != nil {
		return AuditReport{}, err
	}
	refs, err := d.secrets.Keys()
	if err != nil {
		return AuditReport{}, err
	}

	present := make(map[string]bool, len(refs))
	for _, ref := range refs {
		present[ref] = true
	}
	var report AuditReport
	for _, e := range entries {
		ref := SecretRef(e.Scheme, e.Name)
		if present[ref] {
			delete(present, ref)
			continue
		}
		report.MissingSecrets = append(report.MissingSecrets, e.Name)
	}
	for _, ref := range refs {
		if present[ref] {
			report.OrphanSecrets = append(report.OrphanSecrets, ref)
		}
	}
	return report, nil
}

func (d *DualStore) putSecret(r Record) error {
	sealed, err := d.vault.Seal(r.Secret, secretAAD(r.Name, r.Scheme))
	if err != nil {
		return err
	}
	return d.secrets.Set(SecretRef(r.Scheme, r.Name), sealed)
}

func (d *DualStore) removeSecret(ref string) error {
	if err := d.secrets.Remove(ref); err != nil && !errors.Is(err, ErrSecretNotFound) {
		return err
	}
	return nil
}

// restoreEntry puts back the metadata seen before a replace.
func (d *DualStore) restoreEntry(previous Entry, existed bool, name string) error {
	if existed {
		return d.names.Upsert(previous)
	}
	return d.names.Remove(name)
}

func inconsistent(err, rollbackErr error) error {
	return fmt.Errorf("%w: %w", ErrInconsistent, errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr)))
}
