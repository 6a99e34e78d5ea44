package events

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/events", "event handler dispatch")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
