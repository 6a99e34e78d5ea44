package filesystem

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/filesystem", "filesystem based block snapshots")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
