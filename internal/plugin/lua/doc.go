// Package lua runs Lua scripts as event bus listeners.
//
// A listener script defines a global on_event function. It receives each
// delivered event as a table and returns true to mark the event handled:
//
//	function on_event(ev)
//	    if ev.type == "MouseButtonPressed" and ev.code == 0 then
//	        log("left click")
//	        return true
//	    end
//	end
//
// Every table carries type, category, text and handled. Mouse moves add
// x and y; scrolls add x_offset and y_offset; buttons add code; keys add
// code and repeat; resizes add width and height.
//
// Scripts run in a sandbox with only the base, table, string and math
// libraries. Base functions that load code from elsewhere (dofile,
// loadfile, load, loadstring, require, module) are removed.
//
// log(msg) writes an info line to the listener's logger. print is
// redirected there too, so scripts never write to the terminal.
package lua
