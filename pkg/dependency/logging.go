package dependency

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/dependency", "building block dependency graph")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
