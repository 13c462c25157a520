package keystore

// FaultySecretStore wraps a SecretStore and fails selected operations.
// It is exported so tests in other packages can force compensation paths.
type FaultySecretStore struct {
	SecretStore

	// SetErr, GetErr and RemoveErr are returned instead of calling the wrapped store when set.
	SetErr    error
	GetErr    error
	RemoveErr error
	// OnlyRef limits the failures to one reference when non-empty.
	OnlyRef string
}

// NewFaultySecretStore wraps inner, or a fresh memory store when inner is nil.
func NewFaultySecretStore(inner SecretStore) *FaultySecretStore {
	if inner == nil {
		inner = NewMemorySecretStore()
	}
	return &FaultySecretStore{SecretStore: inner}
}

func (f *FaultySecretStore) Set(ref string, secret []byte) error {
	if f.SetErr != nil && f.matches(ref) {
		return f.SetErr
	}
	return f.SecretStore.Set(ref, secret)
}

func (f *FaultySecretStore) Get(ref string) ([]byte, error) {
	if f.GetErr != nil && f.matches(ref) {
		return nil, f.GetErr
	}
	return f.SecretStore.Get(ref)
}

func (f *FaultySecretStore) Remove(ref string) error {
	if f.RemoveErr != nil && f.matches(ref) {
		return f.RemoveErr
	}
	return f.SecretStore.Remove(ref)
}

func (f *FaultySecretStore) matches(ref string) bool {
	return f.OnlyRef == "" || f.OnlyRef == ref
}

// FaultyMetadataStore wraps a MetadataStore and fails selected operations.
type FaultyMetadataStore struct {
	MetadataStore

	InsertErr error
	UpsertErr error
	RemoveErr error
}

// NewFaultyMetadataStore wraps inner.
func NewFaultyMetadataStore(inner MetadataStore) *FaultyMetadataStore {
	return &FaultyMetadataStore{MetadataStore: inner}
}

func (f *FaultyMetadataStore) Insert(e Entry) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	return f.MetadataStore.Insert(e)
}

func (f *FaultyMetadataStore) Upsert(e Entry) error {
	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	return f.MetadataStore.Upsert(e)
}

func (f *FaultyMetadataStore) Remove(name string) error {
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	return f.MetadataStore.Remove(name)
}
