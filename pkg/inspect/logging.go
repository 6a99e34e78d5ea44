package inspect

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/inspect", "read-only block inspection")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
