package js_lower

import (
	"testing"
)

func TestVanillaForCapture(t *testing.T) {
	expectLowered(t, "var a = []; for (let i = 0; i < 3; i++) a.push(function() { return i; });",
		`var a = [];
var $jscomp$loop$0 = {};
$jscomp$loop$0.$jscomp$loop$prop$i$1 = 0;
for (; $jscomp$loop$0.$jscomp$loop$prop$i$1 < 3; $jscomp$loop$0 = { $jscomp$loop$prop$i$1: $jscomp$loop$0.$jscomp$loop$prop$i$1 }, $jscomp$loop$0.$jscomp$loop$prop$i$1++)
  a.push(function($jscomp$loop$0) {
    return function() {
      return $jscomp$loop$0.$jscomp$loop$prop$i$1;
    };
  }($jscomp$loop$0));
`)
}

func TestVanillaForTwoCapturedNames(t *testing.T) {
	expectLowered(t, "for (let i = 0, j = 10; i < j; i++) { use(function() { return i + j; }); }",
		`var $jscomp$loop$0 = {};
$jscomp$loop$0.$jscomp$loop$prop$i$1 = 0;
$jscomp$loop$0.$jscomp$loop$prop$j$2 = 10;
for (; $jscomp$loop$0.$jscomp$loop$prop$i$1 < $jscomp$loop$0.$jscomp$loop$prop$j$2; $jscomp$loop$0 = { $jscomp$loop$prop$i$1: $jscomp$loop$0.$jscomp$loop$prop$i$1, $jscomp$loop$prop$j$2: $jscomp$loop$0.$jscomp$loop$prop$j$2 }, $jscomp$loop$0.$jscomp$loop$prop$i$1++) {
  use(function($jscomp$loop$0) {
    return function() {
      return $jscomp$loop$0.$jscomp$loop$prop$i$1 + $jscomp$loop$0.$jscomp$loop$prop$j$2;
    };
  }($jscomp$loop$0));
}
`)
}

func TestUninitializedLetResetsEachIteration(t *testing.T) {
	// "let x;" must become an assignment of undefined so the property is
	// cleared when the declaration runs again
	expectLowered(t, "for (let i = 0; i < 3; i++) { let x; use(function() { return x; }); }",
		`var $jscomp$loop$0 = {};
var i = 0;
for (; i < 3; $jscomp$loop$0 = { $jscomp$loop$prop$x$1: $jscomp$loop$0.$jscomp$loop$prop$x$1 }, i++) {
  $jscomp$loop$0.$jscomp$loop$prop$x$1 = void 0;
  use(function($jscomp$loop$0) {
    return function() {
      return $jscomp$loop$0.$jscomp$loop$prop$x$1;
    };
  }($jscomp$loop$0));
}
`)
}

func TestWhileLoopContinueBecomesLabeledBreak(t *testing.T) {
	expectLowered(t,
		"while (cond()) { let x = next(); if (skip()) continue; defer(function() { use(x); }); }",
		`var $jscomp$loop$0 = {};
while (cond()) {
  $jscomp$loop$0: {
    $jscomp$loop$0.$jscomp$loop$prop$x$1 = next();
    if (skip())
      break $jscomp$loop$0;
    defer(function($jscomp$loop$0) {
      return function() {
        use($jscomp$loop$0.$jscomp$loop$prop$x$1);
      };
    }($jscomp$loop$0));
  }
  $jscomp$loop$0 = { $jscomp$loop$prop$x$1: $jscomp$loop$0.$jscomp$loop$prop$x$1 };
}
`)
}

func TestWhileLoopWithoutContinueIsNotLabeled(t *testing.T) {
	expectLowered(t, "while (cond()) { let x = next(); defer(function() { use(x); }); }",
		`var $jscomp$loop$0 = {};
while (cond()) {
  $jscomp$loop$0.$jscomp$loop$prop$x$1 = next();
  defer(function($jscomp$loop$0) {
    return function() {
      use($jscomp$loop$0.$jscomp$loop$prop$x$1);
    };
  }($jscomp$loop$0));
  $jscomp$loop$0 = { $jscomp$loop$prop$x$1: $jscomp$loop$0.$jscomp$loop$prop$x$1 };
}
`)
}

func TestContinueWithoutCapturesIsLeftAlone(t *testing.T) {
	expectLowered(t, "while (cond()) { let x = 1; if (x) continue; log(x); }",
		`while (cond()) {
  var x = 1;
  if (x)
    continue;
  log(x);
}
`)
}

func TestLabeledLoopContinue(t *testing.T) {
	// "continue outer" from the inner loop must still run the loop object
	// update of the outer loop, so it becomes a labeled break
	expectLowered(t,
		"outer: while (cond()) { let x = f(); inner: while (g()) { continue outer; } use(function() { return x; }); }",
		`var $jscomp$loop$0 = {};
outer: while (cond()) {
  $jscomp$loop$0: {
    $jscomp$loop$0.$jscomp$loop$prop$x$1 = f();
    inner: while (g()) {
      break $jscomp$loop$0;
    }
    use(function($jscomp$loop$0) {
      return function() {
        return $jscomp$loop$0.$jscomp$loop$prop$x$1;
      };
    }($jscomp$loop$0));
  }
  $jscomp$loop$0 = { $jscomp$loop$prop$x$1: $jscomp$loop$0.$jscomp$loop$prop$x$1 };
}
`)
}

func TestForInCopiesLoopVariableIntoObject(t *testing.T) {
	expectLowered(t, "for (const k in obj) setTimeout(function() { log(k); });",
		`var $jscomp$loop$0 = {};
for (/** @const */ var k in obj) {
  $jscomp$loop$0.$jscomp$loop$prop$k$1 = k;
  setTimeout(function($jscomp$loop$0) {
    return function() {
      log($jscomp$loop$0.$jscomp$loop$prop$k$1);
    };
  }($jscomp$loop$0));
  $jscomp$loop$0 = { $jscomp$loop$prop$k$1: $jscomp$loop$0.$jscomp$loop$prop$k$1 };
}
`)
}

func TestDoWhileCapture(t *testing.T) {
	expectLowered(t, "do { let x = id(); q.push(function() { return x; }); } while (more());",
		`var $jscomp$loop$0 = {};
do {
  $jscomp$loop$0.$jscomp$loop$prop$x$1 = id();
  q.push(function($jscomp$loop$0) {
    return function() {
      return $jscomp$loop$0.$jscomp$loop$prop$x$1;
    };
  }($jscomp$loop$0));
  $jscomp$loop$0 = { $jscomp$loop$prop$x$1: $jscomp$loop$0.$jscomp$loop$prop$x$1 };
} while (more());
`)
}

func TestAccessorCaptureWrapsObjectLiteral(t *testing.T) {
	// A getter cannot be wrapped on its own, so the whole object literal is
	// built inside the closure
	expectLowered(t,
		"for (let n = 0; n < 3; n++) { var o = { get v() { return n; } }; arr.push(o); }",
		`var $jscomp$loop$0 = {};
$jscomp$loop$0.$jscomp$loop$prop$n$1 = 0;
for (; $jscomp$loop$0.$jscomp$loop$prop$n$1 < 3; $jscomp$loop$0 = { $jscomp$loop$prop$n$1: $jscomp$loop$0.$jscomp$loop$prop$n$1 }, $jscomp$loop$0.$jscomp$loop$prop$n$1++) {
  var o = function($jscomp$loop$0) {
    return { get v() {
      return $jscomp$loop$0.$jscomp$loop$prop$n$1;
    } };
  }($jscomp$loop$0);
  arr.push(o);
}
`)
}

func TestCapturedFunctionDeclaration(t *testing.T) {
	// A function declaration keeps defining its name, so the wrapper call
	// result is assigned to a var with that name
	expectLowered(t, "for (let i = 0; i < 3; i++) { function f() { return i; } use(f); }",
		`var $jscomp$loop$0 = {};
$jscomp$loop$0.$jscomp$loop$prop$i$1 = 0;
for (; $jscomp$loop$0.$jscomp$loop$prop$i$1 < 3; $jscomp$loop$0 = { $jscomp$loop$prop$i$1: $jscomp$loop$0.$jscomp$loop$prop$i$1 }, $jscomp$loop$0.$jscomp$loop$prop$i$1++) {
  var f = function($jscomp$loop$0) {
    return function f() {
      return $jscomp$loop$0.$jscomp$loop$prop$i$1;
    };
  }($jscomp$loop$0);
  use(f);
}
`)
}

func TestNestedLoopsGetSeparateObjects(t *testing.T) {
	expectLowered(t,
		"for (let i = 0; i < 2; i++) for (let j = 0; j < 2; j++) use(function() { return i + j; });",
		`var $jscomp$loop$0 = {};
$jscomp$loop$0.$jscomp$loop$prop$i$1 = 0;
for (; $jscomp$loop$0.$jscomp$loop$prop$i$1 < 2; $jscomp$loop$0 = { $jscomp$loop$prop$i$1: $jscomp$loop$0.$jscomp$loop$prop$i$1 }, $jscomp$loop$0.$jscomp$loop$prop$i$1++) {
  var $jscomp$loop$2 = {};
  $jscomp$loop$2.$jscomp$loop$prop$j$3 = 0;
  for (; $jscomp$loop$2.$jscomp$loop$prop$j$3 < 2; $jscomp$loop$2 = { $jscomp$loop$prop$j$3: $jscomp$loop$2.$jscomp$loop$prop$j$3 }, $jscomp$loop$2.$jscomp$loop$prop$j$3++)
    use(function($jscomp$loop$0, $jscomp$loop$2) {
      return function() {
        return $jscomp$loop$0.$jscomp$loop$prop$i$1 + $jscomp$loop$2.$jscomp$loop$prop$j$3;
      };
    }($jscomp$loop$0, $jscomp$loop$2));
}
`)
}
