package main

// indexHTML takes the page title, the config entries and the draw commands.
const indexHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
    <title>%s</title>
    <style type="text/css">
      canvas { border: 1px solid black; }
    </style>
    <script src="https://unpkg.com/zdog@1/dist/zdog.dist.js"></script>
  </head>
  <body>
    <canvas class="mesh-view" width="600" height="600"></canvas>
    <script type="text/javascript">
const config = {
%s
}

const cmds = [
%s
]

const colors = ['green', 'orange', 'purple', 'teal', 'brown']
const canvas = document.querySelector(".mesh-view")
const lo = config.minPos, hi = config.maxPos
const extent = Math.max(hi.x - lo.x, hi.y - lo.y, hi.z - lo.z, 1)

const view = new Zdog.Illustration({
  element: canvas,
  scale: {x: 1.0, y: -1.0, z: 1.0},
  rotate: {x: 1.1, z: -0.3},
  zoom: canvas.width / (2 * extent),
  dragRotate: true,
  onDragMove: render,
})

const scene = new Zdog.Anchor({
  addTo: view,
  translate: {
    x: -(lo.x + hi.x) / 2,
    y: -(lo.y + hi.y) / 2,
    z: -(lo.z + hi.z) / 2,
  },
})

function line(from, to, color, stroke) {
  new Zdog.Shape({addTo: scene, path: [from, to], color: color, stroke: stroke})
}

// bounding box edges
for (const z of [lo.z, hi.z]) {
  const c = [{x: lo.x, y: lo.y}, {x: hi.x, y: lo.y}, {x: hi.x, y: hi.y}, {x: lo.x, y: hi.y}]
  for (let i = 0; i < 4; i++) {
    const a = c[i], b = c[(i + 1) & 3]
    line({x: a.x, y: a.y, z: z}, {x: b.x, y: b.y, z: z}, 'grey', extent / 600)
    if (z === lo.z) {
      line({x: a.x, y: a.y, z: lo.z}, {x: a.x, y: a.y, z: hi.z}, 'grey', extent / 600)
    }
  }
}

// axes at the minimum corner
const axis = extent / 10
line(lo, {x: lo.x + axis, y: lo.y, z: lo.z}, 'red', extent / 200)
line(lo, {x: lo.x, y: lo.y + axis, z: lo.z}, 'green', extent / 200)
line(lo, {x: lo.x, y: lo.y, z: lo.z + axis}, 'blue', extent / 200)

let cur = lo
for (const cmd of cmds) {
  if (cmd.travelTo !== undefined) {
    cur = cmd.travelTo
  } else if (cmd.extrudeTo !== undefined) {
    line(cur, cmd.extrudeTo, colors[cmd.color], extent / 300)
    cur = cmd.extrudeTo
  }
}

canvas.onwheel = function(event) {
  event.preventDefault()
  view.zoom = Math.max(view.zoom * (event.deltaY < 0 ? 1.1 : 0.9), 0.01)
  render()
}

function render() {
  view.updateRenderGraph()
}
render()
    </script>
  </body>
</html>
`
