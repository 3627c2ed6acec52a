package catalog

import "github.com/gear6io/glacier/pkg/errors"

// Catalog-specific error codes. NotFound/AlreadyExists/NotEmpty conditions
// use the iceberg-go sentinel errors; these codes cover what the sentinels
// cannot express.
var (
	// ErrInvalidTable marks a record that exists but is not a table managed
	// by this catalog (wrong or missing type marker).
	ErrInvalidTable = errors.MustNewCode("catalog.invalid_table")

	// ErrPropertyMissing marks a legacy or partial record lacking required
	// bookkeeping attributes.
	ErrPropertyMissing = errors.MustNewCode("catalog.property_missing")

	// ErrInvalidInput covers ambiguous property updates, malformed
	// identifiers and unresolvable locations.
	ErrInvalidInput = errors.MustNewCode("catalog.invalid_input")

	// ErrRenameCleanupFailed reports the rename saga's partial-failure
	// window: the new record is live but the old one could not be removed.
	ErrRenameCleanupFailed = errors.MustNewCode("catalog.rename_cleanup_failed")

	ErrUnsupportedStoreType = errors.MustNewCode("catalog.unsupported_store_type")
	ErrCommitFailed         = errors.MustNewCode("catalog.commit_failed")
)

// IsInvalidTable reports whether err marks a record without a valid type
// marker.
func IsInvalidTable(err error) bool {
	return errors.HasCode(err, ErrInvalidTable)
}

// IsPropertyMissing reports whether err marks a record lacking required
// bookkeeping attributes.
func IsPropertyMissing(err error) bool {
	return errors.HasCode(err, ErrPropertyMissing)
}

// IsInvalidInput reports whether err is an argument-validation rejection.
func IsInvalidInput(err error) bool {
	return errors.HasCode(err, ErrInvalidInput)
}

// IsUnsupportedStoreType reports whether err names a store backend this
// build does not provide.
func IsUnsupportedStoreType(err error) bool {
	return errors.HasCode(err, ErrUnsupportedStoreType)
}
