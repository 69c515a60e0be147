package main

// indexHTML is the chart page. It seeds itself from /api/series, then
// follows /events/samples; bound controls mirror the auto/manual
// radio-plus-textbox pairs of the desktop original.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Arduino Serial Data</title>
<style>
body { font-family: sans-serif; background: #ddd; margin: 1em; }
canvas { background: black; display: block; }
fieldset { display: inline-block; vertical-align: top; }
#controls { margin-top: 0.5em; }
</style>
</head>
<body>
<canvas id="chart" width="800" height="400"></canvas>
<div id="controls">
  <button id="pause">Pause</button>
  <fieldset id="xmin"><legend>X min</legend></fieldset>
  <fieldset id="xmax"><legend>X max</legend></fieldset>
  <fieldset id="ymin"><legend>Y min</legend></fieldset>
  <fieldset id="ymax"><legend>Y max</legend></fieldset>
</div>
<script>
"use strict";

var values = [];
var view = {xmin: 0, xmax: 50, ymin: 0, ymax: 100};

var canvas = document.getElementById("chart");
var ctx = canvas.getContext("2d");

function draw() {
  var w = canvas.width, h = canvas.height;
  ctx.clearRect(0, 0, w, h);
  ctx.fillStyle = "black";
  ctx.fillRect(0, 0, w, h);

  var sx = function(x) { return (x - view.xmin) / (view.xmax - view.xmin) * w; };
  var sy = function(y) { return h - (y - view.ymin) / (view.ymax - view.ymin) * h; };

  ctx.strokeStyle = "grey";
  ctx.lineWidth = 0.5;
  ctx.fillStyle = "grey";
  ctx.font = "10px sans-serif";
  var xstep = Math.max(1, Math.round((view.xmax - view.xmin) / 10));
  for (var x = Math.ceil(view.xmin); x <= view.xmax; x += xstep) {
    ctx.beginPath(); ctx.moveTo(sx(x), 0); ctx.lineTo(sx(x), h); ctx.stroke();
    ctx.fillText(x, sx(x) + 2, h - 4);
  }
  var ystep = (view.ymax - view.ymin) / 8;
  for (var i = 0; i <= 8; i++) {
    var y = view.ymin + i * ystep;
    ctx.beginPath(); ctx.moveTo(0, sy(y)); ctx.lineTo(w, sy(y)); ctx.stroke();
    ctx.fillText(y.toFixed(1), 4, sy(y) - 2);
  }

  ctx.strokeStyle = "yellow";
  ctx.lineWidth = 1;
  ctx.beginPath();
  for (var j = 0; j < values.length; j++) {
    var px = sx(j), py = sy(values[j]);
    if (j === 0) { ctx.moveTo(px, py); } else { ctx.lineTo(px, py); }
  }
  ctx.stroke();
}

function boundControl(id, initial) {
  var box = document.getElementById(id);
  var auto = document.createElement("input");
  auto.type = "radio"; auto.name = id; auto.checked = true;
  var manual = document.createElement("input");
  manual.type = "radio"; manual.name = id;
  var value = document.createElement("input");
  value.type = "number"; value.value = initial; value.size = 5; value.disabled = true;

  box.appendChild(auto);
  box.appendChild(document.createTextNode("Auto "));
  box.appendChild(manual);
  box.appendChild(document.createTextNode("Manual "));
  box.appendChild(value);

  var send = function() {
    var body = {};
    body[id] = {auto: auto.checked, value: parseFloat(value.value) || 0};
    fetch("/api/bounds", {method: "POST", body: JSON.stringify(body)});
    value.disabled = auto.checked;
  };
  auto.onchange = send;
  manual.onchange = send;
  value.onchange = send;

  return {
    set: function(b) {
      auto.checked = b.auto;
      manual.checked = !b.auto;
      value.disabled = b.auto;
      if (!b.auto) { value.value = b.value; }
    }
  };
}

var controls = {
  xmin: boundControl("xmin", 0),
  xmax: boundControl("xmax", 50),
  ymin: boundControl("ymin", 0),
  ymax: boundControl("ymax", 100)
};

var pauseBtn = document.getElementById("pause");
pauseBtn.onclick = function() {
  fetch("/api/pause", {method: "POST"})
    .then(function(resp) { return resp.json(); })
    .then(function(state) {
      pauseBtn.textContent = state.paused ? "Resume" : "Pause";
    });
};

fetch("/api/series")
  .then(function(resp) { return resp.json(); })
  .then(function(state) {
    values = state.values;
    pauseBtn.textContent = state.paused ? "Resume" : "Pause";
    controls.xmin.set(state.bounds.xmin);
    controls.xmax.set(state.bounds.xmax);
    controls.ymin.set(state.bounds.ymin);
    controls.ymax.set(state.bounds.ymax);

    var lastIndex = values.length - 1;
    var events = new EventSource("/events/samples");
    events.onmessage = function(ev) {
      var f = JSON.parse(ev.data);
      if (f.index > lastIndex) {
        values.push(f.value);
        lastIndex = f.index;
      }
      view = {xmin: f.xmin, xmax: f.xmax, ymin: f.ymin, ymax: f.ymax};
      pauseBtn.textContent = f.paused ? "Resume" : "Pause";
      draw();
    };
  });
</script>
</body>
</html>
`
