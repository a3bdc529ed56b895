package opt

import "runtime"

// IsTSO_ detects total-store-order architectures, where plain loads and
// stores of pointers and native word-sized integers cannot be observed
// out of order. Race builds stay conservative so the detector sees every
// access as atomic.
const IsTSO_ = !Race_ &&
	(runtime.GOARCH == "amd64" ||
		runtime.GOARCH == "386" ||
		runtime.GOARCH == "s390x")
