// Package core provides the business logic for converting the bookings CSV
// export into SQL for the brands, influencers and campaigns tables.
//
// This package contains all domain logic independent of the CLI or HTTP
// transport. SQL rendering lives behind the [Emitter] interface.
//
// # Pipeline
//
//  1. Row Reader: [ReadAll] decodes the source ([WrapForStreaming]) and
//     parses it with encoding/csv into [RawRow] values
//  2. Field Normalizer: [Normalizer.Normalize] turns a row into a [Campaign]
//     using the Coerce* functions, which return tagged [Coerced] values
//  3. Entity Collector: [Collector] deduplicates brands and influencers and
//     assigns collision-free handles via [CanonicalHandle]
//  4. SQL Emitter: an [Emitter] renders the collected [Dataset]
//
// [Service] runs the stages for one input. The whole input is read before
// anything is written, so a [SourceReadError] never leaves partial output.
//
// # Coercion Policies
//
// Under [Lenient] an unparsable cell becomes NULL and is counted in
// [Stats].CoercionFailures. Under [Strict] the row is rejected and counted in
// [Stats].RowsRejected.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code prefix for support reference:
//
//   - SRC001-SRC006: Source read errors
//   - VAL001-VAL004: Field coercion errors
//   - CFG001-CFG004: Configuration errors
//   - EMT001-EMT006: Emission and transport errors
package core
