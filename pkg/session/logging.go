package session

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("blocks/session", "building block cascades")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
