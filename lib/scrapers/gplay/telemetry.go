package gplay

import (
	"playscope-backend/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/gplay")

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput routes request/response dumps of every
// client created afterwards to the given output.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	instrumentOutput = out
}
