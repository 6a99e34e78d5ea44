package objectstore

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/objectstore", "building block instance store")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
