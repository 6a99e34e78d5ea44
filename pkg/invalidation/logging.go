package invalidation

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/invalidation", "invalidation callbacks for building blocks")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
